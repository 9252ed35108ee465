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

package config

// Profile describes the chain parameters for a named network. The genesis
// timestamp and slot length determine the timestamp of every block, and the
// genesis seed anchors the block hash chain and the state trie.
type Profile struct {
	GenesisTimestamp uint64
	SlotLength       uint64
	GenesisSeed      string
}

var Profiles = map[string]Profile{
	"mainnet": {
		GenesisTimestamp: 1736380800,
		SlotLength:       20,
		GenesisSeed:      "707572652d72616e646f6d2d6d61696e6e6574",
	},
	"preview": {
		GenesisTimestamp: 1733702400,
		SlotLength:       20,
		GenesisSeed:      "707572652d72616e646f6d2d70726576696577",
	},
	"devnet": {
		GenesisTimestamp: 1704067200,
		SlotLength:       1,
		GenesisSeed:      "707572652d72616e646f6d2d6465766e6574",
	},
}
