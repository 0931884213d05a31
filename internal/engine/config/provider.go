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

package config

import (
	"github.com/google/wire"

	"github.com/quantrix/quantrace/internal/pkg/analysis"
	"github.com/quantrix/quantrace/pkg/cache"
	"github.com/quantrix/quantrace/pkg/database"
	"github.com/quantrix/quantrace/pkg/log"
	"github.com/quantrix/quantrace/pkg/metrics"
	"github.com/quantrix/quantrace/pkg/trace"
)

// ProviderSet provides the application configuration and its sections.
var ProviderSet = wire.NewSet(
	NewConf,
	ProvideLogConf,
	ProvideDatabaseConf,
	ProvideRedisConf,
	ProvideMetricsConf,
	ProvideTraceConf,
	ProvideAnalysisConf,
)

// ProvideLogConf exposes the log section.
func ProvideLogConf(c *AppConfig) *log.Conf {
	return &c.Log
}

// ProvideDatabaseConf exposes the database section.
func ProvideDatabaseConf(c *AppConfig) database.Database {
	return c.Database
}

// ProvideRedisConf exposes the redis section.
func ProvideRedisConf(c *AppConfig) cache.Redis {
	return c.Redis
}

// ProvideMetricsConf exposes the metrics section.
func ProvideMetricsConf(c *AppConfig) metrics.MetricsConfig {
	return c.Metrics
}

// ProvideTraceConf exposes the tracing section.
func ProvideTraceConf(c *AppConfig) trace.Trace {
	return c.Trace
}

// ProvideAnalysisConf exposes the analysis catalog section.
func ProvideAnalysisConf(c *AppConfig) analysis.Config {
	return c.Analysis
}
