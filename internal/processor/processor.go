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

package processor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mariner-labs/purerandom/internal/chain"
	"github.com/mariner-labs/purerandom/internal/contract"
	"github.com/mariner-labs/purerandom/internal/logging"
	"github.com/mariner-labs/purerandom/internal/metrics"
	"github.com/mariner-labs/purerandom/internal/storage"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrUnknownMethod = errors.New("unknown contract method")

	// ErrReadOnlyStateWrite is returned when a method declared read-only
	// attempts a state write
	ErrReadOnlyStateWrite = errors.New("state write in read-only invocation")

	// ErrNoBlockContext is returned when an invocation samples the block
	// context before the chain has been bootstrapped
	ErrNoBlockContext = errors.New("no block context available")
)

// Processor executes contract invocations one at a time to completion. Each
// invocation runs inside a single storage transaction that is committed on
// success and discarded on any failure, so a failed invocation leaves no
// trace in contract state.
type Processor struct {
	invokeMutex sync.Mutex
	stateTrie   *storage.Trie
}

// Singleton processor instance
var globalProcessor = &Processor{}

// Start deploys the contract on a fresh database (zero-initializing its
// state) and prepares the state commitment trie
func (p *Processor) Start() error {
	stateTrie, err := storage.GetStorage().NewStateTrie(contract.Contract.Name)
	if err != nil {
		return fmt.Errorf("failed to load state trie: %w", err)
	}
	p.stateTrie = stateTrie
	if _, err := p.invoke("_init", true); err != nil {
		return fmt.Errorf("failed to deploy contract: %w", err)
	}
	return nil
}

// Invoke executes the named external contract method and returns its
// serialized return value (nil for methods without one)
func (p *Processor) Invoke(methodName string) ([]byte, error) {
	return p.invoke(methodName, false)
}

// StateRoot returns the current state commitment root hash
func (p *Processor) StateRoot() []byte {
	return p.stateTrie.Hash()
}

func (p *Processor) invoke(methodName string, internal bool) ([]byte, error) {
	method, ok := contract.Contract.Methods[methodName]
	if !ok {
		return nil, ErrUnknownMethod
	}
	if !method.External && !internal {
		return nil, ErrUnknownMethod
	}
	// The host executes invocations strictly serially
	p.invokeMutex.Lock()
	defer p.invokeMutex.Unlock()
	store := storage.GetStorage()
	update := method.Access == contract.AccessReadWrite
	txn := store.NewTransaction(update)
	defer txn.Discard()
	hc := &hostContext{
		store:    store,
		txn:      txn,
		readOnly: !update,
	}
	retVal, err := method.Implementation(hc)
	if err != nil {
		metrics.GetInvocations().
			WithLabelValues(method.Name, "failed").Inc()
		return nil, err
	}
	if update {
		if err := txn.Commit(); err != nil {
			metrics.GetInvocations().
				WithLabelValues(method.Name, "failed").Inc()
			return nil, err
		}
		// Fold committed writes into the state commitment trie
		for key, val := range hc.writes {
			trieKey := p.stateTrie.HashKey([]byte(key))
			if err := p.stateTrie.Update(trieKey, val); err != nil {
				return nil, err
			}
		}
	}
	metrics.GetInvocations().
		WithLabelValues(method.Name, "committed").Inc()
	return retVal, nil
}

func GetProcessor() *Processor {
	return globalProcessor
}

// hostContext binds a contract invocation to its storage transaction and the
// chain tip it executes under
type hostContext struct {
	store    *storage.Storage
	txn      *badger.Txn
	readOnly bool
	writes   map[string][]byte
}

func (h *hostContext) GetState(key []byte) ([]byte, error) {
	return h.store.GetState(h.txn, key)
}

func (h *hostContext) SetState(key []byte, value []byte) error {
	if h.readOnly {
		return ErrReadOnlyStateWrite
	}
	if err := h.store.SetState(h.txn, key, value); err != nil {
		return err
	}
	if h.writes == nil {
		h.writes = make(map[string][]byte)
	}
	h.writes[string(key)] = value
	return nil
}

func (h *hostContext) BlockTimestamp() (uint64, error) {
	tip, ok := chain.GetChain().Tip()
	if !ok {
		return 0, ErrNoBlockContext
	}
	return tip.Timestamp, nil
}

func (h *hostContext) Log(msg string) {
	logging.GetLogger().Infof("%s: %s", contract.Contract.Name, msg)
}
