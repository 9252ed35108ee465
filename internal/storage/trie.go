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
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/mariner-labs/purerandom/internal/config"

	mpf "github.com/blinklabs-io/merkle-patricia-forestry"
	"github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/blake2b"
)

// Trie mirrors committed contract state in a Merkle Patricia Forestry trie so
// that we can report a state root hash alongside the chain tip. The trie
// itself lives in memory and is rebuilt from the database on startup.
type Trie struct {
	sync.Mutex
	db        *badger.DB
	trie      *mpf.Trie
	keyPrefix []byte
}

func NewTrie(db *badger.DB, keyPrefix string) (*Trie, error) {
	t := &Trie{
		db:        db,
		trie:      mpf.NewTrie(),
		keyPrefix: []byte(keyPrefix),
	}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Trie) load() error {
	// Seed the trie with the network genesis seed so that different networks
	// produce distinct state roots
	cfg := config.GetConfig()
	seedBytes, err := hex.DecodeString(cfg.Chain.GenesisSeed)
	if err != nil {
		return err
	}
	trieKey := t.HashKey(seedBytes)
	if err := t.Update(trieKey, seedBytes); err != nil {
		return err
	}
	// Load values from storage
	dbKeyPrefix := t.dbKeyPrefix(nil)
	err = t.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(dbKeyPrefix); it.ValidForPrefix(dbKeyPrefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			// Insert key/value into trie
			tmpKey := strings.TrimPrefix(
				string(item.Key()),
				string(dbKeyPrefix),
			)
			t.trie.Set([]byte(tmpKey), val)
		}
		return nil
	})
	return err
}

func (t *Trie) Update(key []byte, val []byte) error {
	t.Lock()
	defer t.Unlock()
	// Update trie
	t.trie.Set(key, val)
	// Update storage
	dbKey := t.dbKeyPrefix(key)
	err := t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dbKey, val)
	})
	return err
}

func (t *Trie) Hash() []byte {
	t.Lock()
	defer t.Unlock()
	return t.trie.Hash().Bytes()
}

// HashKey returns a blake2b-256 hash for use in key values
func (t *Trie) HashKey(key []byte) []byte {
	tmpHash, err := blake2b.New256(nil)
	if err != nil {
		// This should never happen
		panic(err.Error())
	}
	tmpHash.Write(key)
	trieKey := tmpHash.Sum(nil)
	return trieKey
}

func (t *Trie) dbKeyPrefix(key []byte) []byte {
	return []byte(
		fmt.Sprintf(
			"trie_%s_%s",
			t.keyPrefix,
			key,
		),
	)
}
