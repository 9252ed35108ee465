// Copyright 2025 Mariner Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"

	"github.com/mariner-labs/purerandom/internal/common"
	"github.com/mariner-labs/purerandom/internal/config"
	"github.com/mariner-labs/purerandom/internal/logging"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/dgraph-io/badger/v4"
)

const (
	chainTipKey = "chain_tip"

	statePrefix = "state_"
)

type Storage struct {
	db *badger.DB
}

var globalStorage = &Storage{}

func (s *Storage) Load() error {
	cfg := config.GetConfig()
	badgerOpts := badger.DefaultOptions(cfg.Storage.Directory).
		WithLogger(NewBadgerLogger()).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewTransaction starts a storage transaction. Every contract invocation runs
// inside exactly one of these: commit on success, discard on any failure.
func (s *Storage) NewTransaction(update bool) *badger.Txn {
	return s.db.NewTransaction(update)
}

// GetState returns the value stored under the given contract state key within
// the given transaction, or nil if the key has never been written.
func (s *Storage) GetState(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(stateKey(key))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// SetState stores the value under the given contract state key within the
// given transaction. Nothing is visible outside the transaction until commit.
func (s *Storage) SetState(txn *badger.Txn, key []byte, value []byte) error {
	return txn.Set(stateKey(key), value)
}

func (s *Storage) UpdateTip(tip common.Tip) error {
	tipCbor, err := cbor.Encode(&tip)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(chainTipKey), tipCbor); err != nil {
			return err
		}
		return nil
	})
	return err
}

func (s *Storage) GetTip() (common.Tip, bool, error) {
	var tip common.Tip
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(chainTipKey))
		if err != nil {
			return err
		}
		err = item.Value(func(v []byte) error {
			if _, err := cbor.Decode(v, &tip); err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err == badger.ErrKeyNotFound {
		return tip, false, nil
	}
	return tip, found, err
}

// NewStateTrie creates a state commitment trie backed by our database
func (s *Storage) NewStateTrie(keyPrefix string) (*Trie, error) {
	return NewTrie(s.db, keyPrefix)
}

func stateKey(key []byte) []byte {
	return fmt.Appendf(nil, "%s%s", statePrefix, key)
}

func GetStorage() *Storage {
	return globalStorage
}

// BadgerLogger is a wrapper type to give our logger the expected interface
type BadgerLogger struct {
	*logging.Logger
}

func NewBadgerLogger() *BadgerLogger {
	return &BadgerLogger{
		Logger: logging.GetLogger(),
	}
}

func (b *BadgerLogger) Warningf(msg string, args ...any) {
	b.Logger.Warnf(msg, args...)
}
