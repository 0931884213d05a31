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
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/quantrix/quantrace/internal/engine/model"
	"github.com/quantrix/quantrace/internal/engine/repo"
	"github.com/quantrix/quantrace/pkg/log"
	"github.com/quantrix/quantrace/pkg/metrics"
	"github.com/quantrix/quantrace/pkg/trace"
)

// DefaultStaleThreshold is how long a RUNNING execution may go without
// progress before the sweep declares it stalled.
const DefaultStaleThreshold = 12 * time.Hour

// SweepResult reports what one sweep cleaned.
type SweepResult struct {
	CleanedCount int      `json:"cleaned_count"`
	CleanedIDs   []string `json:"cleaned_ids"`
}

// ZombieService force-fails executions stuck in RUNNING with no progress.
type ZombieService struct {
	execRepo   repo.IExecutionRepository
	collectors *metrics.Collectors
}

// NewZombieService creates the stall detector.
func NewZombieService(execRepo repo.IExecutionRepository, collectors *metrics.Collectors) *ZombieService {
	return &ZombieService{execRepo: execRepo, collectors: collectors}
}

// Sweep transitions every RUNNING execution whose last update is older than
// threshold to FAILED, appending a StallTimeout error record.
//
// Safety under concurrency: each transition is a conditional update keyed on
// the (status, updated_at) pair the scan observed. A step that lands between
// the read and the write changes updated_at, the conditional update affects
// zero rows, and the execution is skipped; a legitimate late update is never
// overwritten. Skips do not fail the sweep, and already-FAILED executions
// are excluded from the scan, so an immediate second sweep cleans nothing.
func (s *ZombieService) Sweep(ctx context.Context, threshold time.Duration) (*SweepResult, error) {
	if threshold <= 0 {
		threshold = DefaultStaleThreshold
	}
	ctx, span := trace.Start(ctx, "zombie.sweep")
	defer span.End()
	cutoff := time.Now().Add(-threshold)

	candidates, err := s.execRepo.ListRunningBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{CleanedIDs: []string{}}
	now := time.Now()
	for _, e := range candidates {
		stalledFor := now.Sub(e.UpdatedAt).Round(time.Minute)
		errs := append(e.Errors.Clone(), model.ErrorRecord{
			Timestamp: now,
			ErrorType: model.ErrorTypeStallTimeout,
			Message:   "no progress for " + stalledFor.String(),
			Detail:    "stall threshold " + threshold.String() + " exceeded; forced FAILED by sweep",
		})
		updates := map[string]any{
			"status":   model.StatusFailed,
			"ended_at": now,
			"errors":   errs,
		}
		if e.StartedAt != nil {
			updates["duration_seconds"] = now.Sub(*e.StartedAt).Seconds()
		}

		affected, err := s.execRepo.UpdateStalled(ctx, e.ExecutionID, e.UpdatedAt, updates)
		if err != nil {
			// Partial progress is acceptable; report what was cleaned so far.
			log.Errorw("zombie transition failed", "execution_id", e.ExecutionID, "error", err)
			continue
		}
		if affected == 0 {
			log.Debugw("zombie sweep lost race, skipping", "execution_id", e.ExecutionID)
			continue
		}
		result.CleanedCount++
		result.CleanedIDs = append(result.CleanedIDs, e.ExecutionID)
		if s.collectors != nil {
			s.collectors.ZombiesCleaned.Inc()
		}
		log.Ctx(ctx).Warnw("stalled execution force-failed",
			"execution_id", e.ExecutionID,
			"stalled_for", stalledFor,
			"threshold", threshold,
		)
	}
	span.SetAttributes(
		attribute.Int("sweep.candidates", len(candidates)),
		attribute.Int("sweep.cleaned", result.CleanedCount),
	)
	return result, nil
}
