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

// HostContext is the handle the host environment passes into every contract
// method. It scopes state access to the contract's own keyspace and exposes
// the block context the invocation executes under. Methods never touch
// storage or block metadata except through this interface.
type HostContext interface {
	// GetState returns the value stored under key, or nil if the key has
	// never been written
	GetState(key []byte) ([]byte, error)
	// SetState stores value under key. The write only becomes visible if the
	// invocation commits. Read-only invocations reject writes.
	SetState(key []byte, value []byte) error
	// BlockTimestamp returns the timestamp of the block the invocation
	// executes in. Only meaningful during transaction execution, which is
	// why every method that needs it is declared read-write.
	BlockTimestamp() (uint64, error)
	// Log emits a host-side log message attributed to the contract
	Log(msg string)
}
