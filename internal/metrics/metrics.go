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

package metrics

import (
	"fmt"
	"net/http"

	"github.com/mariner-labs/purerandom/internal/config"
	"github.com/mariner-labs/purerandom/internal/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	invocationsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purerandom_invocations_total",
		Help: "The total number of contract invocations processed",
	}, []string{"method", "outcome"})
	chainHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "purerandom_chain_height",
		Help: "The height of the current chain tip",
	})
)

func GetInvocations() *prometheus.CounterVec {
	return invocationsProcessed
}

func GetChainHeight() prometheus.Gauge {
	return chainHeight
}

func Start() error {
	cfg := config.GetConfig()
	if cfg.Metrics.ListenPort == 0 {
		return nil
	}
	prometheus.MustRegister(invocationsProcessed)
	prometheus.MustRegister(chainHeight)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	listenAddr := fmt.Sprintf(
		"%s:%d",
		cfg.Metrics.ListenAddress,
		cfg.Metrics.ListenPort,
	)
	go func() {
		if err := http.ListenAndServe(listenAddr, mux); err != nil {
			logging.GetLogger().Errorf("metrics listener failed: %s", err)
		}
	}()
	return nil
}
