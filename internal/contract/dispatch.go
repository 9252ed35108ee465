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

// AccessScope declares how a method is allowed to touch contract state
type AccessScope int

const (
	AccessReadOnly AccessScope = iota
	AccessReadWrite
)

// MethodInfo describes one callable contract method. Return values are
// serialized as 32 big-endian bytes, or nil for methods without one.
type MethodInfo struct {
	Name           string
	External       bool
	Access         AccessScope
	Implementation func(HostContext) ([]byte, error)
}

// ContractInfo is the dispatch table the processor executes against
type ContractInfo struct {
	Name    string
	Methods map[string]MethodInfo
}

var methodInit = MethodInfo{
	Name:     "_init",
	External: false,
	Access:   AccessReadWrite,
	Implementation: func(hc HostContext) ([]byte, error) {
		return nil, Init(hc)
	},
}

var methodIncrement = MethodInfo{
	Name:     "increment",
	External: true,
	Access:   AccessReadWrite,
	Implementation: func(hc HostContext) ([]byte, error) {
		return nil, Increment(hc)
	},
}

var methodNonce = MethodInfo{
	Name:     "nonce",
	External: true,
	Access:   AccessReadOnly,
	Implementation: func(hc HostContext) ([]byte, error) {
		nonce, err := Nonce(hc)
		if err != nil {
			return nil, err
		}
		val := nonce.Bytes32()
		return val[:], nil
	},
}

// generate is declared read-write so that it runs as a transaction (a block
// timestamp only exists during transaction execution), even though it never
// writes any state
var methodGenerate = MethodInfo{
	Name:     "generate",
	External: true,
	Access:   AccessReadWrite,
	Implementation: func(hc HostContext) ([]byte, error) {
		random, err := Generate(hc)
		if err != nil {
			return nil, err
		}
		val := random.Bytes32()
		return val[:], nil
	},
}

// Contract is the PureRandom contract descriptor
var Contract = ContractInfo{
	Name: "PureRandom",
	Methods: map[string]MethodInfo{
		methodInit.Name:      methodInit,
		methodIncrement.Name: methodIncrement,
		methodNonce.Name:     methodNonce,
		methodGenerate.Name:  methodGenerate,
	},
}

// Init zero-initializes the nonce slot at deployment. Re-running it against
// existing state is a no-op.
func Init(hc HostContext) error {
	val, err := hc.GetState(nonceStateKey)
	if err != nil {
		return err
	}
	if val != nil {
		return nil
	}
	var zero [32]byte
	if err := hc.SetState(nonceStateKey, zero[:]); err != nil {
		return err
	}
	hc.Log("contract deployed with zero nonce")
	return nil
}
