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

// Package analysis derives the pattern work set (timeframe x strategy
// combinations) an execution must complete. The catalog is configuration
// driven; nothing downstream assumes a fixed pattern count.
package analysis

import (
	"github.com/google/wire"

	"github.com/quantrix/quantrace/internal/engine/model"
)

// ProviderSet is the Wire provider set for the analysis package.
var ProviderSet = wire.NewSet(NewCatalog)

// Config lists the timeframes and strategies every analysis execution covers.
type Config struct {
	Timeframes []string `mapstructure:"timeframes"`
	Strategies []string `mapstructure:"strategies"`
}

// SetDefaults fills the reference 6x3 catalog when unset.
func (c *Config) SetDefaults() {
	if len(c.Timeframes) == 0 {
		c.Timeframes = []string{"5m", "15m", "1h", "4h", "1d", "1w"}
	}
	if len(c.Strategies) == 0 {
		c.Strategies = []string{"momentum", "mean_reversion", "breakout"}
	}
}

// Catalog is the immutable pattern catalog built from config.
type Catalog struct {
	timeframes []model.Timeframe
	strategies []model.Strategy
}

// NewCatalog builds a catalog from config.
func NewCatalog(conf Config) *Catalog {
	conf.SetDefaults()
	tfs := make([]model.Timeframe, 0, len(conf.Timeframes))
	for _, tf := range conf.Timeframes {
		tfs = append(tfs, model.Timeframe(tf))
	}
	sts := make([]model.Strategy, 0, len(conf.Strategies))
	for _, st := range conf.Strategies {
		sts = append(sts, model.Strategy(st))
	}
	return &Catalog{timeframes: tfs, strategies: sts}
}

// Patterns returns the full work set, timeframe-major order.
func (c *Catalog) Patterns() []model.PatternKey {
	keys := make([]model.PatternKey, 0, len(c.timeframes)*len(c.strategies))
	for _, tf := range c.timeframes {
		for _, st := range c.strategies {
			keys = append(keys, model.PatternKey{Timeframe: tf, Strategy: st})
		}
	}
	return keys
}

// Size returns the number of patterns in the catalog.
func (c *Catalog) Size() int {
	return len(c.timeframes) * len(c.strategies)
}

// Contains reports whether key belongs to the catalog.
func (c *Catalog) Contains(key model.PatternKey) bool {
	foundTf := false
	for _, tf := range c.timeframes {
		if tf == key.Timeframe {
			foundTf = true
			break
		}
	}
	if !foundTf {
		return false
	}
	for _, st := range c.strategies {
		if st == key.Strategy {
			return true
		}
	}
	return false
}
