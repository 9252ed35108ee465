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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// nonceStateKey is the single persistent storage slot
var nonceStateKey = []byte("nonce")

// ErrNonceOverflow is returned when incrementing the nonce would exceed the
// unsigned 256-bit range. The invocation fails and the stored value is left
// unchanged.
var ErrNonceOverflow = errors.New("nonce increment overflows uint256")

// Increment reads the stored nonce, adds one using checked 256-bit
// arithmetic, and writes the result back
func Increment(hc HostContext) error {
	nonce, err := readNonce(hc)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(
		nonce,
		uint256.NewInt(1),
	)
	if overflow {
		return ErrNonceOverflow
	}
	return writeNonce(hc, next)
}

// Nonce returns the current stored nonce
func Nonce(hc HostContext) (*uint256.Int, error) {
	return readNonce(hc)
}

// Generate derives a pseudo-random 256-bit value from the current block
// timestamp: the timestamp is encoded as a zero-padded 32-byte little-endian
// buffer, hashed with Keccak-256, and the digest is interpreted as a
// big-endian unsigned integer.
//
// The value is a function of the block timestamp alone, so repeated calls
// within one block return the same number, and a block producer can influence
// the outcome. Do not use this as a secure randomness source.
func Generate(hc HostContext) (*uint256.Int, error) {
	timestamp, err := hc.BlockTimestamp()
	if err != nil {
		return nil, fmt.Errorf("failed to read block timestamp: %w", err)
	}
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:8], timestamp)
	digest := Keccak256(buf[:])
	return new(uint256.Int).SetBytes(digest), nil
}

// Keccak256 hashes the input with the legacy Keccak-256 primitive and
// returns the 32-byte digest
func Keccak256(data []byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	return hasher.Sum(nil)
}

func readNonce(hc HostContext) (*uint256.Int, error) {
	val, err := hc.GetState(nonceStateKey)
	if err != nil {
		return nil, err
	}
	// An unwritten slot reads as zero
	if val == nil {
		return uint256.NewInt(0), nil
	}
	return new(uint256.Int).SetBytes(val), nil
}

func writeNonce(hc HostContext, nonce *uint256.Int) error {
	val := nonce.Bytes32()
	return hc.SetState(nonceStateKey, val[:])
}
