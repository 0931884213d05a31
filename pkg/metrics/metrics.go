// Copyright 2025 Quantrace Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quantrix/quantrace/pkg/log"
)

// MetricsConfig holds the side metrics server configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// SetDefaults fills zero-valued fields with safe defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 9100
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

// Collectors bundles the execution-tracking collectors registered by the server.
type Collectors struct {
	ExecutionsStarted   *prometheus.CounterVec // labels: type
	ExecutionsCompleted *prometheus.CounterVec // labels: type, outcome
	StepsRecorded       prometheus.Counter
	ZombiesCleaned      prometheus.Counter
	RetriesCreated      *prometheus.CounterVec // labels: mode
}

func newCollectors() *Collectors {
	return &Collectors{
		ExecutionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quantrace_executions_started_total",
			Help: "Executions created, by execution type.",
		}, []string{"type"}),
		ExecutionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quantrace_executions_completed_total",
			Help: "Executions reaching a terminal state, by type and outcome.",
		}, []string{"type", "outcome"}),
		StepsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quantrace_steps_recorded_total",
			Help: "Step records appended across all executions.",
		}),
		ZombiesCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quantrace_zombies_cleaned_total",
			Help: "Stalled executions force-failed by the sweep.",
		}),
		RetriesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quantrace_retries_created_total",
			Help: "Retry executions created, by mode.",
		}, []string{"mode"}),
	}
}

// Server owns a private registry and serves it over HTTP.
type Server struct {
	conf       MetricsConfig
	registry   *prometheus.Registry
	collectors *Collectors
	httpServer *http.Server
}

// NewServer builds the metrics server and registers all collectors.
func NewServer(conf MetricsConfig) *Server {
	conf.SetDefaults()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := newCollectors()
	reg.MustRegister(c.ExecutionsStarted, c.ExecutionsCompleted, c.StepsRecorded, c.ZombiesCleaned, c.RetriesCreated)

	return &Server{conf: conf, registry: reg, collectors: c}
}

// GetRegistry exposes the registry for additional collectors (HTTP middleware).
func (s *Server) GetRegistry() *prometheus.Registry {
	return s.registry
}

// GetCollectors returns the execution-tracking collectors.
func (s *Server) GetCollectors() *Collectors {
	return s.collectors
}

// Start serves the metrics endpoint. No-op when disabled.
func (s *Server) Start() error {
	if !s.conf.Enabled {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(s.conf.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.conf.Host, s.conf.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Infow("metrics server listening", "addr", s.httpServer.Addr, "path", s.conf.Path)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the metrics server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
