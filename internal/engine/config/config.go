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
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/quantrix/quantrace/internal/pkg/analysis"
	"github.com/quantrix/quantrace/internal/pkg/watch"
	"github.com/quantrix/quantrace/pkg/cache"
	"github.com/quantrix/quantrace/pkg/database"
	"github.com/quantrix/quantrace/pkg/http"
	"github.com/quantrix/quantrace/pkg/log"
	"github.com/quantrix/quantrace/pkg/metrics"
	"github.com/quantrix/quantrace/pkg/trace"
)

// ZombieConfig controls the stall detector.
type ZombieConfig struct {
	StaleThresholdHours int    `mapstructure:"staleThresholdHours"`
	SweepSchedule       string `mapstructure:"sweepSchedule"` // six-field cron expression, seconds first; empty disables the periodic sweep
}

// SetDefaults fills zero-valued fields with safe defaults.
func (z *ZombieConfig) SetDefaults() {
	if z.StaleThresholdHours == 0 {
		z.StaleThresholdHours = 12
	}
}

// Threshold returns the stall threshold as a duration.
func (z *ZombieConfig) Threshold() time.Duration {
	return time.Duration(z.StaleThresholdHours) * time.Hour
}

// AppConfig is the root application configuration.
type AppConfig struct {
	Log      log.Conf              `mapstructure:"log"`
	Http     http.Http             `mapstructure:"http"`
	Database database.Database     `mapstructure:"database"`
	Redis    cache.Redis           `mapstructure:"redis"`
	Metrics  metrics.MetricsConfig `mapstructure:"metrics"`
	Trace    trace.Trace           `mapstructure:"trace"`
	Analysis analysis.Config       `mapstructure:"analysis"`
	Zombie   ZombieConfig          `mapstructure:"zombie"`
	Watch    watch.Config          `mapstructure:"watch"`
}

var (
	cfg  AppConfig
	mu   sync.RWMutex
	once sync.Once
)

// NewConf loads configuration once and returns the shared instance.
func NewConf(confPath string) *AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confPath)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	return &cfg
}

// GetConfig returns a copy of the current configuration, for hot-reload readers.
func GetConfig() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

func applyDefaults(c *AppConfig) {
	c.Http.SetDefaults()
	c.Database.SetDefaults()
	c.Redis.SetDefaults()
	c.Metrics.SetDefaults()
	c.Trace.SetDefaults()
	c.Analysis.SetDefaults()
	c.Zombie.SetDefaults()
	c.Watch.SetDefaults()
}

// LoadConfigFile reads and watches the configuration file.
func LoadConfigFile(confPath string) (AppConfig, error) {
	config := viper.New()
	config.SetConfigFile(confPath)
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, re-reading", "file", e.Name)
		if err := config.ReadInConfig(); err != nil {
			log.Errorw("failed to re-read configuration file", "error", err, "file", e.Name)
			return
		}
		mu.Lock()
		if err := config.Unmarshal(&cfg); err != nil {
			mu.Unlock()
			log.Errorw("failed to unmarshal configuration file", "error", err, "file", e.Name)
			return
		}
		applyDefaults(&cfg)
		mu.Unlock()
		log.Infow("configuration reloaded successfully", "file", e.Name)
	})

	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}
	applyDefaults(&cfg)
	log.Infow("config file loaded", "path", confPath)

	return cfg, nil
}
