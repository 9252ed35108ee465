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

package common

// BlockHeader holds the fields that determine a block's identity. The block
// hash is computed over the CBOR encoding of this structure.
type BlockHeader struct {
	// Tells the CBOR encoder to serialize as an array
	_         struct{} `cbor:",toarray"`
	Height    uint64
	Timestamp uint64
	PrevHash  []byte
}

// Tip describes the most recent block known to the chain
type Tip struct {
	// Tells the CBOR encoder to serialize as an array
	_         struct{} `cbor:",toarray"`
	Height    uint64
	Timestamp uint64
	Hash      []byte
}
