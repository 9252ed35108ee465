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

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Storage StorageConfig `yaml:"storage"`
	Chain   ChainConfig   `yaml:"chain"`
	Api     ApiConfig     `yaml:"api"`
	Metrics MetricsConfig `yaml:"metrics"`
	Network string        `yaml:"network" envconfig:"NETWORK"`
}

type LoggingConfig struct {
	Debug bool   `yaml:"debug" envconfig:"LOGGING_DEBUG"`
	Level string `yaml:"level" envconfig:"LOGGING_LEVEL"`
}

type StorageConfig struct {
	Directory string `yaml:"dir" envconfig:"STORAGE_DIR"`
}

type ChainConfig struct {
	GenesisTimestamp uint64 `yaml:"genesisTimestamp" envconfig:"CHAIN_GENESIS_TIMESTAMP"`
	SlotLength       uint64 `yaml:"slotLength"       envconfig:"CHAIN_SLOT_LENGTH"`
	GenesisSeed      string `yaml:"genesisSeed"      envconfig:"CHAIN_GENESIS_SEED"`
}

type ApiConfig struct {
	ListenAddress string `yaml:"address" envconfig:"API_LISTEN_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"API_LISTEN_PORT"`
}

type MetricsConfig struct {
	ListenAddress string `yaml:"address" envconfig:"METRICS_LISTEN_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"METRICS_LISTEN_PORT"`
}

// Singleton config instance with default values
var globalConfig = &Config{
	Api: ApiConfig{
		ListenAddress: "localhost",
		ListenPort:    8080,
	},
	Metrics: MetricsConfig{
		ListenAddress: "",
		ListenPort:    8081,
	},
	Storage: StorageConfig{
		Directory: "./.purerandom",
	},
	Network: "devnet",
}

func Load(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Load config values from environment variables
	// We use "dummy" as the app name here to (mostly) prevent picking up env
	// vars that we hadn't explicitly specified in annotations above
	err := envconfig.Process("dummy", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	// Populate chain parameters from the selected network profile
	if err := globalConfig.populateChain(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

// GetConfig returns the global config instance
func GetConfig() *Config {
	return globalConfig
}

func (c *Config) populateChain() error {
	profile, ok := Profiles[c.Network]
	if !ok {
		return fmt.Errorf("unknown network: %s", c.Network)
	}
	// Explicit chain config values take precedence over the profile
	if c.Chain.GenesisTimestamp == 0 {
		c.Chain.GenesisTimestamp = profile.GenesisTimestamp
	}
	if c.Chain.SlotLength == 0 {
		c.Chain.SlotLength = profile.SlotLength
	}
	if c.Chain.GenesisSeed == "" {
		c.Chain.GenesisSeed = profile.GenesisSeed
	}
	return nil
}
