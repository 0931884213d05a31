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

// Package watch polls one execution's status until a terminal outcome is
// observed or the attempt budget runs out, delivering exactly one terminal
// notification. A polling timeout is purely local: it never mutates, and
// must never be confused with, the execution itself failing.
package watch

import (
	"time"
)

// State is the client-local lifecycle of a poll session.
type State string

const (
	StateWatching               State = "WATCHING"
	StateStoppedSuccess         State = "STOPPED_SUCCESS"
	StateStoppedFailed          State = "STOPPED_FAILED"
	StateStoppedTimeout         State = "STOPPED_TIMEOUT"
	StateStoppedCancelledByUser State = "STOPPED_CANCELLED_BY_USER"
)

// Config controls the polling loop.
type Config struct {
	Interval    time.Duration `mapstructure:"interval"`
	MaxAttempts int           `mapstructure:"maxAttempts"`
}

// SetDefaults applies the reference cadence: 30s interval, 60 attempts.
func (c *Config) SetDefaults() {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 60
	}
}

// Status is the fetched view of the watched execution.
type Status struct {
	ExecutionID      string  `json:"execution_id"`
	Status           string  `json:"status"`
	Percentage       float64 `json:"percentage"`
	CurrentOperation string  `json:"current_operation"`
	LastError        string  `json:"last_error,omitempty"`
}

// Result is the single terminal notification of a session.
type Result struct {
	State   State
	Message string
	Final   *Status // last successfully fetched status, nil if none
}
