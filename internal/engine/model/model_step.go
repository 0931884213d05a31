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

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Step is one named phase of an execution. The sequence is append-only; a
// step is updated in place only while it is not terminal.
type Step struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Status         ExecutionStatus `json:"status"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	EndedAt        *time.Time      `json:"ended_at,omitempty"`
	ResultSummary  string          `json:"result_summary,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	ErrorDetail    string          `json:"error_detail,omitempty"`
	CompletedUnits int             `json:"completed_units"`
	TotalUnits     int             `json:"total_units"`
}

// Steps is the JSON-persisted step sequence.
type Steps []Step

// Value implements driver.Valuer.
func (s Steps) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *Steps) Scan(value any) error {
	return scanJSON(value, s, func() { *s = Steps{} })
}

// Find returns the step with the given name, or nil.
func (s Steps) Find(name string) *Step {
	for i := range s {
		if s[i].Name == name {
			return &s[i]
		}
	}
	return nil
}

// ErrorRecord captures one failure observed during an execution. Records are
// append-only and never mutated or removed.
type ErrorRecord struct {
	Timestamp time.Time `json:"timestamp"`
	ErrorType string    `json:"error_type"`
	Message   string    `json:"message"`
	Detail    string    `json:"detail,omitempty"`
}

// Error types recorded on executions.
const (
	ErrorTypeStallTimeout = "StallTimeout"
	ErrorTypeStepFailure  = "StepFailure"
)

// ErrorRecords is the JSON-persisted error sequence.
type ErrorRecords []ErrorRecord

// Value implements driver.Valuer.
func (r ErrorRecords) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (r *ErrorRecords) Scan(value any) error {
	return scanJSON(value, r, func() { *r = ErrorRecords{} })
}

// Clone returns an independent copy of the sequence.
func (r ErrorRecords) Clone() ErrorRecords {
	out := make(ErrorRecords, len(r))
	copy(out, r)
	return out
}

// ResourceMetrics carries optional resource accounting for an execution.
type ResourceMetrics struct {
	CPUAvg       float64 `json:"cpu_avg,omitempty"`
	MemoryPeakMB float64 `json:"memory_peak_mb,omitempty"`
	DiskIOMB     float64 `json:"disk_io_mb,omitempty"`
}

// IsZero reports whether no metrics were recorded.
func (m ResourceMetrics) IsZero() bool {
	return m.CPUAvg == 0 && m.MemoryPeakMB == 0 && m.DiskIOMB == 0
}

// Value implements driver.Valuer.
func (m ResourceMetrics) Value() (driver.Value, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (m *ResourceMetrics) Scan(value any) error {
	return scanJSON(value, m, func() { *m = ResourceMetrics{} })
}

// scanJSON decodes a JSON column that may arrive as []byte or string.
func scanJSON(value any, dst any, reset func()) error {
	if value == nil {
		reset()
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported Scan type %T", value)
	}
	if len(b) == 0 {
		reset()
		return nil
	}
	return json.Unmarshal(b, dst)
}
