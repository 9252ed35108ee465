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

package api

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mariner-labs/purerandom/internal/chain"
	"github.com/mariner-labs/purerandom/internal/config"
	"github.com/mariner-labs/purerandom/internal/contract"
	"github.com/mariner-labs/purerandom/internal/logging"
	"github.com/mariner-labs/purerandom/internal/processor"

	"github.com/holiman/uint256"
)

func Start() error {
	cfg := config.GetConfig()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/increment", handleIncrement)
	mux.HandleFunc("GET /api/nonce", handleNonce)
	mux.HandleFunc("POST /api/generate", handleGenerate)
	mux.HandleFunc("GET /api/tip", handleTip)
	listenAddr := fmt.Sprintf(
		"%s:%d",
		cfg.Api.ListenAddress,
		cfg.Api.ListenPort,
	)
	go func() {
		if err := http.ListenAndServe(listenAddr, mux); err != nil {
			logging.GetLogger().Errorf("API listener failed: %s", err)
		}
	}()
	return nil
}

func handleIncrement(w http.ResponseWriter, r *http.Request) {
	if _, err := processor.GetProcessor().Invoke("increment"); err != nil {
		writeError(w, err)
		return
	}
	writeJson(w, map[string]any{
		"status": "committed",
	})
}

func handleNonce(w http.ResponseWriter, r *http.Request) {
	retVal, err := processor.GetProcessor().Invoke("nonce")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJson(w, map[string]any{
		"nonce": new(uint256.Int).SetBytes(retVal).Dec(),
	})
}

func handleGenerate(w http.ResponseWriter, r *http.Request) {
	retVal, err := processor.GetProcessor().Invoke("generate")
	if err != nil {
		writeError(w, err)
		return
	}
	random := new(uint256.Int).SetBytes(retVal)
	writeJson(w, map[string]any{
		"random":    random.Dec(),
		"randomHex": random.Hex(),
	})
}

func handleTip(w http.ResponseWriter, r *http.Request) {
	tip, ok := chain.GetChain().Tip()
	if !ok {
		writeError(w, processor.ErrNoBlockContext)
		return
	}
	writeJson(w, map[string]any{
		"height":    tip.Height,
		"timestamp": tip.Timestamp,
		"hash":      hex.EncodeToString(tip.Hash),
		"stateRoot": hex.EncodeToString(processor.GetProcessor().StateRoot()),
	})
}

func writeJson(w http.ResponseWriter, resp any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.GetLogger().Errorf("failed to write API response: %s", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, processor.ErrUnknownMethod):
		statusCode = http.StatusNotFound
	case errors.Is(err, contract.ErrNonceOverflow):
		statusCode = http.StatusConflict
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"error": err.Error(),
	}); err != nil {
		logging.GetLogger().Errorf("failed to write API response: %s", err)
	}
}
