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

package contract

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

// fakeHost is a map-backed host environment for exercising contract methods
// without a database or chain
type fakeHost struct {
	state     map[string][]byte
	timestamp uint64
	tsErr     error
	logs      []string
}

func newFakeHost(timestamp uint64) *fakeHost {
	return &fakeHost{
		state:     make(map[string][]byte),
		timestamp: timestamp,
	}
}

func (f *fakeHost) GetState(key []byte) ([]byte, error) {
	val, ok := f.state[string(key)]
	if !ok {
		return nil, nil
	}
	return val, nil
}

func (f *fakeHost) SetState(key []byte, value []byte) error {
	f.state[string(key)] = value
	return nil
}

func (f *fakeHost) BlockTimestamp() (uint64, error) {
	if f.tsErr != nil {
		return 0, f.tsErr
	}
	return f.timestamp, nil
}

func (f *fakeHost) Log(msg string) {
	f.logs = append(f.logs, msg)
}

func TestNonceFreshDeploy(t *testing.T) {
	host := newFakeHost(1700000000)
	require.NoError(t, Init(host))
	nonce, err := Nonce(host)
	require.NoError(t, err)
	assert.True(t, nonce.IsZero())
}

func TestNonceUnwrittenReadsZero(t *testing.T) {
	host := newFakeHost(1700000000)
	nonce, err := Nonce(host)
	require.NoError(t, err)
	assert.True(t, nonce.IsZero())
}

func TestIncrement(t *testing.T) {
	host := newFakeHost(1700000000)
	require.NoError(t, Init(host))
	require.NoError(t, Increment(host))
	nonce, err := Nonce(host)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce.Uint64())
}

func TestIncrementSequence(t *testing.T) {
	host := newFakeHost(1700000000)
	require.NoError(t, Init(host))
	for i := range 5 {
		require.NoError(t, Increment(host))
		nonce, err := Nonce(host)
		require.NoError(t, err)
		// Each increment moves the nonce up by exactly one
		require.Equal(t, uint64(i+1), nonce.Uint64())
	}
}

func TestNonceIdempotent(t *testing.T) {
	host := newFakeHost(1700000000)
	require.NoError(t, Init(host))
	require.NoError(t, Increment(host))
	first, err := Nonce(host)
	require.NoError(t, err)
	second, err := Nonce(host)
	require.NoError(t, err)
	assert.True(t, first.Eq(second))
}

func TestIncrementOverflow(t *testing.T) {
	host := newFakeHost(1700000000)
	maxVal := bytes.Repeat([]byte{0xff}, 32)
	require.NoError(t, host.SetState(nonceStateKey, maxVal))
	err := Increment(host)
	require.ErrorIs(t, err, ErrNonceOverflow)
	// The stored value must be left unchanged
	nonce, err := Nonce(host)
	require.NoError(t, err)
	assert.Equal(t, maxVal, nonce.PaddedBytes(32))
}

func TestGenerateMatchesKeccak(t *testing.T) {
	testTimestamp := uint64(1718275200)
	host := newFakeHost(testTimestamp)
	random, err := Generate(host)
	require.NoError(t, err)
	// Recompute the expected digest independently: 32-byte little-endian
	// timestamp encoding hashed with Keccak-256, interpreted big-endian
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:8], testTimestamp)
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(buf[:])
	expected := new(uint256.Int).SetBytes(hasher.Sum(nil))
	assert.True(t, expected.Eq(random))
}

func TestGenerateDeterministic(t *testing.T) {
	host := newFakeHost(1718275200)
	first, err := Generate(host)
	require.NoError(t, err)
	second, err := Generate(host)
	require.NoError(t, err)
	// Same block timestamp produces the same value
	assert.True(t, first.Eq(second))
	// A different timestamp produces a different value
	host.timestamp++
	third, err := Generate(host)
	require.NoError(t, err)
	assert.False(t, first.Eq(third))
}

func TestGenerateLeavesStateUntouched(t *testing.T) {
	host := newFakeHost(1718275200)
	require.NoError(t, Init(host))
	require.NoError(t, Increment(host))
	before, err := Nonce(host)
	require.NoError(t, err)
	_, err = Generate(host)
	require.NoError(t, err)
	after, err := Nonce(host)
	require.NoError(t, err)
	assert.True(t, before.Eq(after))
	// Only the nonce slot should exist
	assert.Len(t, host.state, 1)
}

func TestGenerateHostFailure(t *testing.T) {
	host := newFakeHost(0)
	hostErr := errors.New("host failure")
	host.tsErr = hostErr
	_, err := Generate(host)
	require.ErrorIs(t, err, hostErr)
}

func TestInitExistingState(t *testing.T) {
	host := newFakeHost(1700000000)
	require.NoError(t, Init(host))
	require.NoError(t, Increment(host))
	// Re-running init must not reset the nonce
	require.NoError(t, Init(host))
	nonce, err := Nonce(host)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce.Uint64())
}

// BenchmarkGenerate tests the performance of the full generate path
func BenchmarkGenerate(b *testing.B) {
	host := newFakeHost(1718275200)
	for i := 0; i < b.N; i++ {
		if _, err := Generate(host); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkKeccak256 tests the performance of the hash primitive alone
func BenchmarkKeccak256(b *testing.B) {
	var buf [32]byte
	for i := 0; i < b.N; i++ {
		Keccak256(buf[:])
	}
}
