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
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/quantrix/quantrace/internal/engine/model"
	"github.com/quantrix/quantrace/internal/engine/repo"
	"github.com/quantrix/quantrace/internal/pkg/analysis"
	"github.com/quantrix/quantrace/internal/pkg/progress"
	"github.com/quantrix/quantrace/pkg/cache"
	"github.com/quantrix/quantrace/pkg/id"
	"github.com/quantrix/quantrace/pkg/log"
	"github.com/quantrix/quantrace/pkg/metrics"
)

const statusCacheTTL = 2 * time.Second

// StatusSnapshot is the polling view of one execution.
type StatusSnapshot struct {
	ExecutionID string                `json:"execution_id"`
	Status      model.ExecutionStatus `json:"status"`
	Progress    progress.Snapshot     `json:"progress"`
	Errors      model.ErrorRecords    `json:"errors"`
}

// ExecutionService owns the execution lifecycle: legal transitions, step and
// error accounting, and nothing else. It never invokes the tracked work; the
// work engine calls in as it makes progress, and every mutation goes through
// the store.
type ExecutionService struct {
	execRepo   repo.IExecutionRepository
	catalog    *analysis.Catalog
	cache      cache.ICache
	collectors *metrics.Collectors
	locks      *keyedMutex
}

// NewExecutionService creates the execution state machine service.
func NewExecutionService(execRepo repo.IExecutionRepository, catalog *analysis.Catalog, c cache.ICache, collectors *metrics.Collectors) *ExecutionService {
	return &ExecutionService{
		execRepo:   execRepo,
		catalog:    catalog,
		cache:      c,
		collectors: collectors,
		locks:      newKeyedMutex(),
	}
}

// Create validates subjects and creates an execution in PENDING covering the
// full pattern catalog.
func (s *ExecutionService) Create(ctx context.Context, typ model.ExecutionType, subjects []string, triggeredBy string) (*model.Execution, error) {
	return s.createWithPatterns(ctx, typ, subjects, triggeredBy, s.catalog.Patterns())
}

// createWithPatterns is the shared creation path; the retry controller passes
// a restricted work set.
func (s *ExecutionService) createWithPatterns(ctx context.Context, typ model.ExecutionType, subjects []string, triggeredBy string, patterns []model.PatternKey) (*model.Execution, error) {
	if !typ.IsValid() {
		return nil, &ValidationError{Input: string(typ), Reason: "unknown execution type"}
	}
	if len(subjects) == 0 {
		return nil, &ValidationError{
			Input:      "",
			Reason:     "subjects must not be empty",
			Suggestion: "provide at least one symbol, e.g. BTC",
		}
	}
	normalized := make(model.Subjects, 0, len(subjects))
	for _, raw := range subjects {
		symbol, err := model.NormalizeSymbol(raw)
		if err != nil {
			return nil, &ValidationError{
				Input:      raw,
				Reason:     err.Error(),
				Suggestion: "symbols are 2-10 alphanumeric characters, e.g. HYPE",
			}
		}
		if !normalized.Contains(symbol) {
			normalized = append(normalized, symbol)
		}
	}
	if triggeredBy == "" {
		triggeredBy = "operator"
	}

	e := &model.Execution{
		ExecutionID: id.NewExecutionID(),
		Type:        typ,
		Subjects:    normalized,
		Status:      model.StatusPending,
		TotalTasks:  len(patterns),
		Steps:       model.Steps{},
		Errors:      model.ErrorRecords{},
		Patterns:    model.NewPatternSet(patterns),
		TriggeredBy: triggeredBy,
	}
	if err := s.execRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	if s.collectors != nil {
		s.collectors.ExecutionsStarted.WithLabelValues(string(typ)).Inc()
	}
	log.Ctx(ctx).Infow("execution created", "execution_id", e.ExecutionID, "type", typ, "subjects", normalized, "triggered_by", triggeredBy)
	return e, nil
}

// Start transitions PENDING to RUNNING.
func (s *ExecutionService) Start(ctx context.Context, executionID string) error {
	unlock := s.locks.Lock(executionID)
	defer unlock()

	e, err := s.load(ctx, executionID)
	if err != nil {
		return err
	}
	if e.Status != model.StatusPending {
		return &AlreadyStartedError{ExecutionID: executionID, Status: e.Status}
	}
	now := time.Now()
	e.Status = model.StatusRunning
	e.StartedAt = &now
	return s.save(ctx, e)
}

// RecordStep appends or updates a step and refreshes the task counters and
// current-operation label. It fails once the execution is terminal.
func (s *ExecutionService) RecordStep(ctx context.Context, executionID, stepName string, status model.ExecutionStatus, resultSummary, errMsg string) error {
	unlock := s.locks.Lock(executionID)
	defer unlock()

	e, err := s.load(ctx, executionID)
	if err != nil {
		return err
	}
	if e.Status.IsTerminal() {
		return &TerminalExecutionError{ExecutionID: executionID, Status: e.Status}
	}

	now := time.Now()

	// The first reported step implicitly starts a pending execution.
	if e.Status == model.StatusPending {
		e.Status = model.StatusRunning
		e.StartedAt = &now
	}

	step := e.Steps.Find(stepName)
	if step == nil {
		e.Steps = append(e.Steps, model.Step{
			ID:        uuid.NewString(),
			Name:      stepName,
			Status:    status,
			StartedAt: &now,
		})
		step = &e.Steps[len(e.Steps)-1]
	} else {
		step.Status = status
	}
	step.ResultSummary = resultSummary
	step.ErrorMessage = errMsg
	if status.IsTerminal() {
		step.EndedAt = &now
	}

	// A step named after a pattern key drives the pattern work set. Marking
	// completion is a set-union, so redelivered signals never double count.
	if key, ok := model.ParsePatternKey(stepName); ok {
		if _, tracked := e.Patterns[key]; tracked {
			step.TotalUnits = 1
			switch {
			case status == model.StatusSuccess:
				e.Patterns.MarkCompleted(key)
				step.CompletedUnits = 1
			case status == model.StatusRunning:
				e.Patterns.MarkRunning(key)
			}
			e.CompletedTasks = e.Patterns.CompletedCount()
		}
	}

	// Sticky label: a step reaching a terminal state keeps the last known
	// operation on display until the next one starts.
	if !status.IsTerminal() {
		e.CurrentOperation = stepName
	}

	if status == model.StatusFailed && errMsg != "" {
		e.Errors = append(e.Errors, model.ErrorRecord{
			Timestamp: now,
			ErrorType: model.ErrorTypeStepFailure,
			Message:   errMsg,
			Detail:    "step " + stepName,
		})
	}

	if s.collectors != nil {
		s.collectors.StepsRecorded.Inc()
	}
	return s.save(ctx, e)
}

// Complete transitions RUNNING to the given terminal outcome. Calling it
// again with the same outcome is a no-op, which tolerates duplicate
// completion signals from asynchronous workers; a conflicting outcome is
// rejected and the stored status is left untouched.
func (s *ExecutionService) Complete(ctx context.Context, executionID string, outcome model.ExecutionStatus) error {
	if !outcome.IsTerminal() {
		return &ValidationError{Input: string(outcome), Reason: "outcome must be SUCCESS, FAILED or CANCELLED"}
	}

	unlock := s.locks.Lock(executionID)
	defer unlock()

	e, err := s.load(ctx, executionID)
	if err != nil {
		return err
	}
	if e.Status.IsTerminal() {
		if e.Status == outcome {
			return nil
		}
		return &TerminalExecutionError{ExecutionID: executionID, Status: e.Status}
	}
	if e.Status != model.StatusRunning {
		return &NotRunningError{ExecutionID: executionID, Status: e.Status}
	}

	now := time.Now()
	e.Status = outcome
	e.EndedAt = &now
	if e.StartedAt != nil {
		e.DurationSeconds = now.Sub(*e.StartedAt).Seconds()
	}
	if err := s.save(ctx, e); err != nil {
		return err
	}
	if s.collectors != nil {
		s.collectors.ExecutionsCompleted.WithLabelValues(string(e.Type), string(outcome)).Inc()
	}
	log.Ctx(ctx).Infow("execution completed", "execution_id", executionID, "outcome", outcome, "duration_seconds", e.DurationSeconds)
	return nil
}

// Cancel is the operator's manual reset: RUNNING to CANCELLED. Recorded steps
// stay untouched.
func (s *ExecutionService) Cancel(ctx context.Context, executionID string) error {
	unlock := s.locks.Lock(executionID)
	defer unlock()

	e, err := s.load(ctx, executionID)
	if err != nil {
		return err
	}
	if e.Status != model.StatusRunning {
		return &NotRunningError{ExecutionID: executionID, Status: e.Status}
	}
	now := time.Now()
	e.Status = model.StatusCancelled
	e.EndedAt = &now
	if e.StartedAt != nil {
		e.DurationSeconds = now.Sub(*e.StartedAt).Seconds()
	}
	if err := s.save(ctx, e); err != nil {
		return err
	}
	if s.collectors != nil {
		s.collectors.ExecutionsCompleted.WithLabelValues(string(e.Type), string(model.StatusCancelled)).Inc()
	}
	log.Ctx(ctx).Infow("execution cancelled by operator", "execution_id", executionID)
	return nil
}

// RecordResourceMetrics stores the latest resource observations for the
// execution. Permitted only while the execution is not terminal.
func (s *ExecutionService) RecordResourceMetrics(ctx context.Context, executionID string, m model.ResourceMetrics) error {
	unlock := s.locks.Lock(executionID)
	defer unlock()

	e, err := s.load(ctx, executionID)
	if err != nil {
		return err
	}
	if e.Status.IsTerminal() {
		return &TerminalExecutionError{ExecutionID: executionID, Status: e.Status}
	}
	e.ResourceMetrics = m
	return s.save(ctx, e)
}

// AppendError records a failure observation. Permitted only while the
// execution is not terminal.
func (s *ExecutionService) AppendError(ctx context.Context, executionID, errorType, message, detail string) error {
	unlock := s.locks.Lock(executionID)
	defer unlock()

	e, err := s.load(ctx, executionID)
	if err != nil {
		return err
	}
	if e.Status.IsTerminal() {
		return &TerminalExecutionError{ExecutionID: executionID, Status: e.Status}
	}
	e.Errors = append(e.Errors, model.ErrorRecord{
		Timestamp: time.Now(),
		ErrorType: errorType,
		Message:   message,
		Detail:    detail,
	})
	return s.save(ctx, e)
}

// Get returns the full execution record.
func (s *ExecutionService) Get(ctx context.Context, executionID string) (*model.Execution, error) {
	return s.load(ctx, executionID)
}

// Status returns the polling snapshot, served from the cache when fresh.
func (s *ExecutionService) Status(ctx context.Context, executionID string) (*StatusSnapshot, error) {
	key := statusCacheKey(executionID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var snap StatusSnapshot
		if jerr := json.Unmarshal([]byte(cached), &snap); jerr == nil {
			return &snap, nil
		}
	}

	// The fill holds the execution lock so a writer cannot invalidate
	// between our read and the Set; an unlocked fill could park a stale
	// snapshot in the cache for a full TTL.
	unlock := s.locks.Lock(executionID)
	defer unlock()

	e, err := s.load(ctx, executionID)
	if err != nil {
		return nil, err
	}
	snap := &StatusSnapshot{
		ExecutionID: e.ExecutionID,
		Status:      e.Status,
		Progress:    progress.Compute(e),
		Errors:      e.Errors,
	}
	if data, err := json.Marshal(snap); err == nil {
		if cerr := s.cache.Set(ctx, key, string(data), statusCacheTTL); cerr != nil {
			log.Debugw("status cache set failed", "execution_id", executionID, "error", cerr)
		}
	}
	return snap, nil
}

func (s *ExecutionService) load(ctx context.Context, executionID string) (*model.Execution, error) {
	e, err := s.execRepo.Get(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, &NotFoundError{ExecutionID: executionID}
	}
	return e, nil
}

func (s *ExecutionService) save(ctx context.Context, e *model.Execution) error {
	if err := s.execRepo.Save(ctx, e); err != nil {
		return err
	}
	if err := s.cache.Del(ctx, statusCacheKey(e.ExecutionID)); err != nil {
		log.Debugw("status cache invalidation failed", "execution_id", e.ExecutionID, "error", err)
	}
	return nil
}

func statusCacheKey(executionID string) string {
	return "quantrace:status:" + executionID
}
