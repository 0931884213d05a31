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

package service

import (
	"fmt"

	"github.com/quantrix/quantrace/internal/engine/model"
)

// ValidationError rejects bad input before any execution is created. It is
// never retried automatically.
type ValidationError struct {
	Input      string
	Reason     string
	Suggestion string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %q: %s", e.Input, e.Reason)
}

// NotFoundError reports an unknown execution id.
type NotFoundError struct {
	ExecutionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("execution %s not found", e.ExecutionID)
}

// AlreadyStartedError reports a Start call on a non-PENDING execution.
type AlreadyStartedError struct {
	ExecutionID string
	Status      model.ExecutionStatus
}

func (e *AlreadyStartedError) Error() string {
	return fmt.Sprintf("execution %s already started (status %s)", e.ExecutionID, e.Status)
}

// TerminalExecutionError reports an attempted mutation of a finished
// execution. It signals a programming or race defect in the caller and is
// never retried.
type TerminalExecutionError struct {
	ExecutionID string
	Status      model.ExecutionStatus
}

func (e *TerminalExecutionError) Error() string {
	return fmt.Sprintf("execution %s is terminal (status %s)", e.ExecutionID, e.Status)
}

// NothingToRetryError reports an INCOMPLETE_ONLY retry of a fully completed
// execution.
type NothingToRetryError struct {
	ExecutionID string
}

func (e *NothingToRetryError) Error() string {
	return fmt.Sprintf("execution %s has no incomplete work to retry", e.ExecutionID)
}

// ExecutionStillRunningError rejects a retry of a non-terminal execution.
type ExecutionStillRunningError struct {
	ExecutionID string
	Status      model.ExecutionStatus
}

func (e *ExecutionStillRunningError) Error() string {
	return fmt.Sprintf("execution %s is still %s; wait for it to finish before retrying", e.ExecutionID, e.Status)
}

// NotRunningError rejects a cancel of an execution that is not RUNNING.
type NotRunningError struct {
	ExecutionID string
	Status      model.ExecutionStatus
}

func (e *NotRunningError) Error() string {
	return fmt.Sprintf("execution %s is not running (status %s)", e.ExecutionID, e.Status)
}
