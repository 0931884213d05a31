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
	"github.com/quantrix/quantrace/internal/pkg/progress"
)

// ExecutionSummary is one row of the execution-log listing.
type ExecutionSummary struct {
	ExecutionID      string                `json:"execution_id"`
	Type             model.ExecutionType   `json:"type"`
	Subjects         model.Subjects        `json:"subjects"`
	Status           model.ExecutionStatus `json:"status"`
	Percentage       float64               `json:"percentage"`
	CurrentOperation string                `json:"current_operation"`
	DurationSeconds  float64               `json:"duration_seconds"`
	TriggeredBy      string                `json:"triggered_by"`
	CreatedAt        string                `json:"created_at"`
}

// Page carries pagination metadata.
type Page struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// SymbolsStatus groups executions by derived bucket.
type SymbolsStatus struct {
	Running   []ExecutionSummary `json:"running"`
	Completed []ExecutionSummary `json:"completed"`
	Pending   []ExecutionSummary `json:"pending"`
	Failed    []ExecutionSummary `json:"failed"`
}

// StatsService serves the read-only query surface of the dashboard.
type StatsService struct {
	execRepo repo.IExecutionRepository
}

// NewStatsService creates the query service.
func NewStatsService(execRepo repo.IExecutionRepository) *StatsService {
	return &StatsService{execRepo: execRepo}
}

// List returns a page of execution summaries plus the total match count.
func (s *StatsService) List(ctx context.Context, query *repo.ExecutionQuery) ([]ExecutionSummary, Page, int64, error) {
	list, total, err := s.execRepo.List(ctx, query)
	if err != nil {
		return nil, Page{}, 0, err
	}
	summaries := make([]ExecutionSummary, 0, len(list))
	for _, e := range list {
		summaries = append(summaries, summarize(e))
	}
	pageSize := 20
	page := 1
	if query != nil {
		if query.PageSize > 0 {
			pageSize = query.PageSize
		}
		if query.Page > 0 {
			page = query.Page
		}
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return summaries, Page{CurrentPage: page, TotalPages: totalPages}, total, nil
}

// Statistics aggregates outcomes over the day window.
func (s *StatsService) Statistics(ctx context.Context, days int) (*repo.Stats, error) {
	return s.execRepo.Statistics(ctx, days)
}

// SymbolsStatus buckets recent executions with the shared classification rule.
func (s *StatsService) SymbolsStatus(ctx context.Context, days int) (*SymbolsStatus, error) {
	list, err := s.execRepo.ListRecent(ctx, days)
	if err != nil {
		return nil, err
	}
	out := &SymbolsStatus{
		Running:   []ExecutionSummary{},
		Completed: []ExecutionSummary{},
		Pending:   []ExecutionSummary{},
		Failed:    []ExecutionSummary{},
	}
	for _, e := range list {
		summary := summarize(e)
		switch model.BucketOf(e) {
		case model.BucketRunning:
			out.Running = append(out.Running, summary)
		case model.BucketCompleted:
			out.Completed = append(out.Completed, summary)
		case model.BucketPending:
			out.Pending = append(out.Pending, summary)
		default:
			out.Failed = append(out.Failed, summary)
		}
	}
	return out, nil
}

func summarize(e *model.Execution) ExecutionSummary {
	snap := progress.Compute(e)
	return ExecutionSummary{
		ExecutionID:      e.ExecutionID,
		Type:             e.Type,
		Subjects:         e.Subjects,
		Status:           e.Status,
		Percentage:       snap.Percentage,
		CurrentOperation: snap.CurrentOperation,
		DurationSeconds:  e.DurationSeconds,
		TriggeredBy:      e.TriggeredBy,
		CreatedAt:        e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
