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
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/mariner-labs/purerandom/internal/common"
	"github.com/mariner-labs/purerandom/internal/config"
	"github.com/mariner-labs/purerandom/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentSlot(t *testing.T) {
	// Before genesis there is only slot zero
	assert.Equal(t, uint64(0), currentSlot(1000, 20, 999))
	assert.Equal(t, uint64(0), currentSlot(1000, 20, 1000))
	assert.Equal(t, uint64(0), currentSlot(1000, 20, 1019))
	assert.Equal(t, uint64(1), currentSlot(1000, 20, 1020))
	assert.Equal(t, uint64(5), currentSlot(1000, 20, 1119))
	// A zero slot length never advances
	assert.Equal(t, uint64(0), currentSlot(1000, 0, 2000))
}

func TestTimestampForSlot(t *testing.T) {
	assert.Equal(t, uint64(1000), timestampForSlot(1000, 20, 0))
	assert.Equal(t, uint64(1020), timestampForSlot(1000, 20, 1))
	assert.Equal(t, uint64(1100), timestampForSlot(1000, 20, 5))
}

func TestHeaderHash(t *testing.T) {
	header := common.BlockHeader{
		Height:    1,
		Timestamp: 1020,
		PrevHash:  []byte{0x01, 0x02},
	}
	hashA, err := headerHash(header)
	require.NoError(t, err)
	hashB, err := headerHash(header)
	require.NoError(t, err)
	assert.Len(t, hashA, 32)
	assert.Equal(t, hashA, hashB)
	// Any header field change produces a different hash
	header.Timestamp++
	hashC, err := headerHash(header)
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashC)
}

func TestGenesisTip(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	tip, err := genesisTip()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tip.Height)
	assert.Equal(t, cfg.Chain.GenesisTimestamp, tip.Timestamp)
	// Cross-check the double SHA-256 against the stdlib implementation
	seedBytes, err := hex.DecodeString(cfg.Chain.GenesisSeed)
	require.NoError(t, err)
	first := sha256.Sum256(seedBytes)
	second := sha256.Sum256(first[:])
	assert.Equal(t, second[:], tip.Hash)
}

func TestBootstrap(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Storage.Directory = t.TempDir()
	require.NoError(t, storage.GetStorage().Load())
	defer func() {
		_ = storage.GetStorage().Close()
	}()
	c := &Chain{}
	require.NoError(t, c.Bootstrap())
	tip, ok := c.Tip()
	require.True(t, ok)
	// The devnet genesis is in the past, so the tip advances beyond it
	assert.Greater(t, tip.Height, uint64(0))
	assert.Equal(
		t,
		timestampForSlot(
			cfg.Chain.GenesisTimestamp,
			cfg.Chain.SlotLength,
			tip.Height,
		),
		tip.Timestamp,
	)
	// The tip is persisted for the next startup
	storedTip, found, err := storage.GetStorage().GetTip()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, tip, storedTip)
	// Bootstrapping again resumes from the persisted tip; the chain never
	// moves backwards
	restored := &Chain{}
	require.NoError(t, restored.Bootstrap())
	restoredTip, ok := restored.Tip()
	require.True(t, ok)
	assert.GreaterOrEqual(t, restoredTip.Height, tip.Height)
	assert.Equal(
		t,
		timestampForSlot(
			cfg.Chain.GenesisTimestamp,
			cfg.Chain.SlotLength,
			restoredTip.Height,
		),
		restoredTip.Timestamp,
	)
}
