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

package chain

import (
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/mariner-labs/purerandom/internal/common"
	"github.com/mariner-labs/purerandom/internal/config"
	"github.com/mariner-labs/purerandom/internal/logging"
	"github.com/mariner-labs/purerandom/internal/metrics"
	"github.com/mariner-labs/purerandom/internal/storage"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/minio/sha256-simd"
)

const (
	statusLogInterval = 30 * time.Second
)

// Chain is a deterministic local block context: one slot per configured
// interval since the network genesis timestamp, with a block materialized at
// the current slot. It supplies contract invocations with the block
// timestamp they execute under. Not every slot materializes a block; the tip
// jumps to the current slot whenever the chain advances.
type Chain struct {
	sync.Mutex
	tip            common.Tip
	bootstrapped   bool
	slotTimer      *time.Timer
	statusLogTimer *time.Timer
}

// Singleton chain instance
var globalChain = &Chain{}

// Bootstrap restores the persisted tip, or creates the genesis block on a
// fresh database, and advances the tip to the current slot. It does not
// start the slot timers; Start does.
func (c *Chain) Bootstrap() error {
	c.Lock()
	defer c.Unlock()
	cfg := config.GetConfig()
	tip, found, err := storage.GetStorage().GetTip()
	if err != nil {
		return err
	}
	if !found {
		tip, err = genesisTip()
		if err != nil {
			return err
		}
		logging.GetLogger().Infof(
			"created genesis block %x for network %s",
			tip.Hash,
			cfg.Network,
		)
	}
	c.tip = tip
	c.bootstrapped = true
	// Catch up to the current slot
	if _, err := c.extendTip(); err != nil {
		return err
	}
	return nil
}

func (c *Chain) Start() error {
	if err := c.Bootstrap(); err != nil {
		return err
	}
	c.scheduleNextSlot()
	c.scheduleStatusLog()
	return nil
}

func (c *Chain) Stop() {
	c.Lock()
	defer c.Unlock()
	if c.slotTimer != nil {
		c.slotTimer.Stop()
	}
	if c.statusLogTimer != nil {
		c.statusLogTimer.Stop()
	}
}

// Tip returns the current chain tip. The second return value is false until
// the chain has been bootstrapped.
func (c *Chain) Tip() (common.Tip, bool) {
	c.Lock()
	defer c.Unlock()
	return c.tip, c.bootstrapped
}

// extendTip materializes a block at the current slot if the tip is behind it.
// The caller must hold the chain lock.
func (c *Chain) extendTip() (bool, error) {
	cfg := config.GetConfig()
	slot := currentSlot(
		cfg.Chain.GenesisTimestamp,
		cfg.Chain.SlotLength,
		uint64(time.Now().Unix()), // #nosec G115
	)
	if slot <= c.tip.Height {
		return false, nil
	}
	header := common.BlockHeader{
		Height: slot,
		Timestamp: timestampForSlot(
			cfg.Chain.GenesisTimestamp,
			cfg.Chain.SlotLength,
			slot,
		),
		PrevHash: c.tip.Hash,
	}
	blockHash, err := headerHash(header)
	if err != nil {
		return false, err
	}
	c.tip = common.Tip{
		Height:    header.Height,
		Timestamp: header.Timestamp,
		Hash:      blockHash,
	}
	if err := storage.GetStorage().UpdateTip(c.tip); err != nil {
		return false, err
	}
	metrics.GetChainHeight().Set(float64(c.tip.Height))
	return true, nil
}

func (c *Chain) scheduleNextSlot() {
	cfg := config.GetConfig()
	c.slotTimer = time.AfterFunc(
		time.Duration(cfg.Chain.SlotLength)*time.Second, // #nosec G115
		c.onSlot,
	)
}

func (c *Chain) onSlot() {
	c.Lock()
	defer c.Unlock()
	if _, err := c.extendTip(); err != nil {
		logging.GetLogger().Errorf("failed to extend chain tip: %s", err)
	}
	c.scheduleNextSlot()
}

func (c *Chain) scheduleStatusLog() {
	c.statusLogTimer = time.AfterFunc(statusLogInterval, c.statusLog)
}

func (c *Chain) statusLog() {
	tip, _ := c.Tip()
	logging.GetLogger().Infof(
		"chain tip: height %d, timestamp %d, hash %x",
		tip.Height,
		tip.Timestamp,
		tip.Hash,
	)
	c.scheduleStatusLog()
}

func GetChain() *Chain {
	return globalChain
}

// genesisTip builds the height-zero tip from the network genesis seed
func genesisTip() (common.Tip, error) {
	cfg := config.GetConfig()
	seedBytes, err := hex.DecodeString(cfg.Chain.GenesisSeed)
	if err != nil {
		return common.Tip{}, fmt.Errorf("invalid genesis seed: %w", err)
	}
	return common.Tip{
		Height:    0,
		Timestamp: cfg.Chain.GenesisTimestamp,
		Hash:      doubleSha256(seedBytes),
	}, nil
}

// headerHash computes the block hash as a double SHA-256 over the CBOR
// encoding of the header
func headerHash(header common.BlockHeader) ([]byte, error) {
	headerCbor, err := cbor.Encode(&header)
	if err != nil {
		return nil, err
	}
	return doubleSha256(headerCbor), nil
}

func doubleSha256(data []byte) []byte {
	hasher := sha256.New()
	hasher.Write(data)
	hash := hasher.Sum(nil)
	// And hash it again
	hasher2 := sha256.New()
	hasher2.Write(hash)
	return hasher2.Sum(nil)
}

func currentSlot(genesisTimestamp uint64, slotLength uint64, now uint64) uint64 {
	if now <= genesisTimestamp || slotLength == 0 {
		return 0
	}
	return (now - genesisTimestamp) / slotLength
}

func timestampForSlot(genesisTimestamp uint64, slotLength uint64, slot uint64) uint64 {
	return genesisTimestamp + slot*slotLength
}
