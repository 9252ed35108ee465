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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mariner-labs/purerandom/internal/api"
	"github.com/mariner-labs/purerandom/internal/chain"
	"github.com/mariner-labs/purerandom/internal/config"
	"github.com/mariner-labs/purerandom/internal/logging"
	"github.com/mariner-labs/purerandom/internal/metrics"
	"github.com/mariner-labs/purerandom/internal/processor"
	"github.com/mariner-labs/purerandom/internal/storage"
	"github.com/mariner-labs/purerandom/internal/version"

	_ "go.uber.org/automaxprocs"
)

var cmdlineFlags struct {
	configFile string
}

func main() {
	flag.StringVar(
		&cmdlineFlags.configFile,
		"config",
		"",
		"path to config file to load",
	)
	flag.Parse()

	// Load config
	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("Failed to load config: %s\n", err)
		os.Exit(1)
	}

	// Configure logging
	logging.Setup()
	logger := logging.GetLogger()
	// Sync logger on exit
	defer func() {
		if err := logger.Sync(); err != nil {
			// We don't actually care about the error here, but we have to do something
			// to appease the linter
			return
		}
	}()

	logger.Infof(
		"purerandom %s started for network %s",
		version.GetVersionString(),
		cfg.Network,
	)

	// Open storage
	if err := storage.GetStorage().Load(); err != nil {
		logger.Fatalf("failed to open storage: %s", err)
	}

	// Start the local chain
	if err := chain.GetChain().Start(); err != nil {
		logger.Fatalf("failed to start chain: %s", err)
	}

	// Deploy the contract (no-op if already deployed)
	if err := processor.GetProcessor().Start(); err != nil {
		logger.Fatalf("failed to start processor: %s", err)
	}

	// Start metrics listener
	if err := metrics.Start(); err != nil {
		logger.Fatalf("failed to start metrics listener: %s", err)
	}

	// Start API listener
	logger.Infof(
		"starting API listener on %s:%d",
		cfg.Api.ListenAddress,
		cfg.Api.ListenPort,
	)
	if err := api.Start(); err != nil {
		logger.Fatalf("failed to start API listener: %s", err)
	}

	// Wait forever
	select {}
}
