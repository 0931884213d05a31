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
	"time"
)

// ExecutionType classifies the unit of work an execution tracks.
type ExecutionType string

const (
	ExecutionTypeSymbolAddition    ExecutionType = "SYMBOL_ADDITION"
	ExecutionTypeScheduledBacktest ExecutionType = "SCHEDULED_BACKTEST"
	ExecutionTypeScheduledTraining ExecutionType = "SCHEDULED_TRAINING"
	ExecutionTypeEmergencyRetrain  ExecutionType = "EMERGENCY_RETRAIN"
	ExecutionTypeManual            ExecutionType = "MANUAL_EXECUTION"
)

// IsValid reports whether t is a known execution type.
func (t ExecutionType) IsValid() bool {
	switch t {
	case ExecutionTypeSymbolAddition, ExecutionTypeScheduledBacktest,
		ExecutionTypeScheduledTraining, ExecutionTypeEmergencyRetrain,
		ExecutionTypeManual:
		return true
	default:
		return false
	}
}

// ExecutionStatus is the lifecycle state of an execution or a step.
type ExecutionStatus string

const (
	StatusPending   ExecutionStatus = "PENDING"
	StatusRunning   ExecutionStatus = "RUNNING"
	StatusSuccess   ExecutionStatus = "SUCCESS"
	StatusFailed    ExecutionStatus = "FAILED"
	StatusCancelled ExecutionStatus = "CANCELLED"
)

// IsTerminal reports whether s is a terminal state.
func (s ExecutionStatus) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the status as a string.
func (s ExecutionStatus) String() string {
	return string(s)
}

// Execution is one attempted unit of analysis work.
type Execution struct {
	ExecutionID      string          `gorm:"column:execution_id;type:VARCHAR(64);primaryKey" json:"execution_id"`
	Type             ExecutionType   `gorm:"column:type;type:VARCHAR(32)" json:"type"`
	Subjects         Subjects        `gorm:"column:subjects;type:JSON" json:"subjects"`
	Status           ExecutionStatus `gorm:"column:status;type:VARCHAR(16);index" json:"status"`
	StartedAt        *time.Time      `gorm:"column:started_at" json:"started_at,omitempty"`
	EndedAt          *time.Time      `gorm:"column:ended_at" json:"ended_at,omitempty"`
	DurationSeconds  float64         `gorm:"column:duration_seconds" json:"duration_seconds"`
	TotalTasks       int             `gorm:"column:total_tasks" json:"total_tasks"`
	CompletedTasks   int             `gorm:"column:completed_tasks" json:"completed_tasks"`
	CurrentOperation string          `gorm:"column:current_operation;type:VARCHAR(255)" json:"current_operation"`
	Steps            Steps           `gorm:"column:steps;type:JSON" json:"steps"`
	Errors           ErrorRecords    `gorm:"column:errors;type:JSON" json:"errors"`
	Patterns         PatternSet      `gorm:"column:patterns;type:JSON" json:"patterns"`
	ResourceMetrics  ResourceMetrics `gorm:"column:resource_metrics;type:JSON" json:"resource_metrics"`
	TriggeredBy      string          `gorm:"column:triggered_by;type:VARCHAR(128)" json:"triggered_by"`
	CreatedAt        time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;index" json:"updated_at"`
}

// TableName returns the table name.
func (Execution) TableName() string {
	return "t_execution"
}

// Duration returns the wall time of a finished execution, or the elapsed time
// since start for a running one.
func (e *Execution) Duration() time.Duration {
	if e.StartedAt == nil {
		return 0
	}
	if e.EndedAt != nil {
		return e.EndedAt.Sub(*e.StartedAt)
	}
	return time.Since(*e.StartedAt)
}

// LastError returns the most recent error record, or nil.
func (e *Execution) LastError() *ErrorRecord {
	if len(e.Errors) == 0 {
		return nil
	}
	return &e.Errors[len(e.Errors)-1]
}

// Bucket is the derived dashboard grouping of an execution.
type Bucket string

const (
	BucketRunning   Bucket = "running"
	BucketCompleted Bucket = "completed"
	BucketPending   Bucket = "pending"
	BucketFailed    Bucket = "failed"
)

// BucketOf classifies an execution for the symbols-status view. The rule is
// defined once here and shared by the query layer and any rendering layer.
// CANCELLED groups with failed: an operator stopped it and the work did not
// finish.
func BucketOf(e *Execution) Bucket {
	switch e.Status {
	case StatusPending:
		return BucketPending
	case StatusRunning:
		return BucketRunning
	case StatusSuccess:
		return BucketCompleted
	default:
		return BucketFailed
	}
}
