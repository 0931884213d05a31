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
	"context"

	"github.com/quantrix/quantrace/internal/engine/model"
	"github.com/quantrix/quantrace/internal/engine/repo"
	"github.com/quantrix/quantrace/pkg/log"
	"github.com/quantrix/quantrace/pkg/metrics"
)

// RetryMode selects how much of the source execution's work a retry repeats.
type RetryMode string

const (
	// RetryModeFull repeats the entire work set, like a fresh create.
	RetryModeFull RetryMode = "FULL"
	// RetryModeIncompleteOnly restricts the new work set to patterns the
	// source execution never completed.
	RetryModeIncompleteOnly RetryMode = "INCOMPLETE_ONLY"
)

// RetryService derives new executions from finished ones. The source record
// is immutable history; a retry never mutates it.
type RetryService struct {
	execRepo   repo.IExecutionRepository
	execSvc    *ExecutionService
	collectors *metrics.Collectors
}

// NewRetryService creates the retry controller.
func NewRetryService(execRepo repo.IExecutionRepository, execSvc *ExecutionService, collectors *metrics.Collectors) *RetryService {
	return &RetryService{execRepo: execRepo, execSvc: execSvc, collectors: collectors}
}

// Retry creates a new execution continuing the source's work and returns it.
func (s *RetryService) Retry(ctx context.Context, executionID string, mode RetryMode) (*model.Execution, error) {
	source, err := s.execRepo.Get(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, &NotFoundError{ExecutionID: executionID}
	}
	if !source.Status.IsTerminal() {
		return nil, &ExecutionStillRunningError{ExecutionID: executionID, Status: source.Status}
	}

	triggeredBy := "retry-of-" + source.ExecutionID

	var (
		retry    *model.Execution
		workSize int
	)
	switch mode {
	case RetryModeIncompleteOnly:
		patterns := source.Patterns.Incomplete()
		if len(patterns) == 0 {
			return nil, &NothingToRetryError{ExecutionID: executionID}
		}
		workSize = len(patterns)
		retry, err = s.execSvc.createWithPatterns(ctx, source.Type, source.Subjects, triggeredBy, patterns)
	case RetryModeFull:
		// A full rerun covers the whole current catalog, exactly like a
		// fresh create, even when the source was itself a restricted retry.
		retry, err = s.execSvc.Create(ctx, source.Type, source.Subjects, triggeredBy)
		if retry != nil {
			workSize = retry.TotalTasks
		}
	default:
		return nil, &ValidationError{Input: string(mode), Reason: "retry mode must be FULL or INCOMPLETE_ONLY"}
	}
	if err != nil {
		return nil, err
	}
	if s.collectors != nil {
		s.collectors.RetriesCreated.WithLabelValues(string(mode)).Inc()
	}
	log.Ctx(ctx).Infow("retry execution created",
		"source_execution_id", executionID,
		"new_execution_id", retry.ExecutionID,
		"mode", mode,
		"work_set_size", workSize,
	)
	return retry, nil
}

// RetryLatestForSymbol retries the most recent execution covering symbol.
func (s *RetryService) RetryLatestForSymbol(ctx context.Context, symbol string, mode RetryMode) (*model.Execution, error) {
	normalized, err := model.NormalizeSymbol(symbol)
	if err != nil {
		return nil, &ValidationError{
			Input:      symbol,
			Reason:     err.Error(),
			Suggestion: "symbols are 2-10 alphanumeric characters, e.g. HYPE",
		}
	}
	source, err := s.execRepo.LatestForSymbol(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, &NotFoundError{ExecutionID: "symbol " + normalized}
	}
	return s.Retry(ctx, source.ExecutionID, mode)
}
