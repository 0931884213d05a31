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

package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/quantrix/quantrace/internal/engine/model"
	"github.com/quantrix/quantrace/pkg/database"
)

// ExecutionQuery defines filter parameters for listing executions.
type ExecutionQuery struct {
	Type     string
	Symbol   string
	Status   string
	Days     int
	Page     int
	PageSize int
}

// Stats aggregates execution outcomes over a day window.
type Stats struct {
	TotalExecutions    int64   `json:"total_executions"`
	SuccessRate        float64 `json:"success_rate"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
	TotalComputeHours  float64 `json:"total_compute_hours"`
}

// IExecutionRepository defines persistence methods for executions.
type IExecutionRepository interface {
	Create(ctx context.Context, e *model.Execution) error
	Get(ctx context.Context, executionID string) (*model.Execution, error)
	Save(ctx context.Context, e *model.Execution) error
	UpdateStalled(ctx context.Context, executionID string, seenUpdatedAt time.Time, updates map[string]any) (int64, error)
	List(ctx context.Context, query *ExecutionQuery) ([]*model.Execution, int64, error)
	ListRunningBefore(ctx context.Context, cutoff time.Time) ([]*model.Execution, error)
	ListRecent(ctx context.Context, days int) ([]*model.Execution, error)
	LatestForSymbol(ctx context.Context, symbol string) (*model.Execution, error)
	Statistics(ctx context.Context, days int) (*Stats, error)
}

type ExecutionRepo struct {
	database.IDatabase
}

// NewExecutionRepo creates the execution repository.
func NewExecutionRepo(db database.IDatabase) IExecutionRepository {
	return &ExecutionRepo{IDatabase: db}
}

// Create inserts a new execution record.
func (r *ExecutionRepo) Create(ctx context.Context, e *model.Execution) error {
	return r.Database().WithContext(ctx).Create(e).Error
}

// Get returns the execution by id, or nil when absent.
func (r *ExecutionRepo) Get(ctx context.Context, executionID string) (*model.Execution, error) {
	var one model.Execution
	err := r.Database().WithContext(ctx).
		Where("execution_id = ?", executionID).
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}

// Save writes back the full execution snapshot. Callers serialize writes for
// the same execution through the service layer's per-id lock.
func (r *ExecutionRepo) Save(ctx context.Context, e *model.Execution) error {
	return r.Database().WithContext(ctx).Save(e).Error
}

// UpdateStalled applies updates only if the row still looks exactly like the
// sweep observed it: RUNNING and untouched since seenUpdatedAt. The affected
// row count tells the caller whether it won or lost the race.
func (r *ExecutionRepo) UpdateStalled(ctx context.Context, executionID string, seenUpdatedAt time.Time, updates map[string]any) (int64, error) {
	res := r.Database().WithContext(ctx).
		Model(&model.Execution{}).
		Where("execution_id = ? AND status = ? AND updated_at = ?", executionID, model.StatusRunning, seenUpdatedAt).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// List returns a page of executions and the total matching count, newest first.
func (r *ExecutionRepo) List(ctx context.Context, query *ExecutionQuery) ([]*model.Execution, int64, error) {
	if query == nil {
		query = &ExecutionQuery{}
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}

	db := r.Database().WithContext(ctx).Model(&model.Execution{})
	if query.Type != "" {
		db = db.Where("type = ?", query.Type)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Symbol != "" {
		// Subjects is a JSON array of quoted symbols; a substring match on the
		// quoted form works on both MySQL and SQLite.
		db = db.Where("subjects LIKE ?", `%"`+query.Symbol+`"%`)
	}
	if query.Days > 0 {
		db = db.Where("created_at >= ?", time.Now().AddDate(0, 0, -query.Days))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []*model.Execution
	err := db.Order("created_at DESC").
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListRunningBefore returns RUNNING executions whose last update precedes cutoff.
func (r *ExecutionRepo) ListRunningBefore(ctx context.Context, cutoff time.Time) ([]*model.Execution, error) {
	var list []*model.Execution
	err := r.Database().WithContext(ctx).
		Where("status = ? AND updated_at < ?", model.StatusRunning, cutoff).
		Find(&list).Error
	return list, err
}

// ListRecent returns executions created within the last N days, newest first.
func (r *ExecutionRepo) ListRecent(ctx context.Context, days int) ([]*model.Execution, error) {
	db := r.Database().WithContext(ctx).Model(&model.Execution{})
	if days > 0 {
		db = db.Where("created_at >= ?", time.Now().AddDate(0, 0, -days))
	}
	var list []*model.Execution
	err := db.Order("created_at DESC").Find(&list).Error
	return list, err
}

// LatestForSymbol returns the most recent execution containing the symbol, or
// nil when the symbol was never analyzed.
func (r *ExecutionRepo) LatestForSymbol(ctx context.Context, symbol string) (*model.Execution, error) {
	var one model.Execution
	err := r.Database().WithContext(ctx).
		Where("subjects LIKE ?", `%"`+symbol+`"%`).
		Order("created_at DESC").
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}

// Statistics aggregates executions created within the window.
func (r *ExecutionRepo) Statistics(ctx context.Context, days int) (*Stats, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var row struct {
		Total       int64
		Success     sql.NullInt64
		AvgDuration sql.NullFloat64
		SumDuration sql.NullFloat64
	}
	err := r.Database().WithContext(ctx).
		Model(&model.Execution{}).
		Select(
			"COUNT(*) AS total, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS success, "+
				"AVG(CASE WHEN duration_seconds > 0 THEN duration_seconds END) AS avg_duration, "+
				"SUM(duration_seconds) AS sum_duration",
			model.StatusSuccess,
		).
		Where("created_at >= ?", since).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalExecutions:    row.Total,
		AvgDurationSeconds: row.AvgDuration.Float64,
		TotalComputeHours:  row.SumDuration.Float64 / 3600,
	}
	if row.Total > 0 {
		stats.SuccessRate = float64(row.Success.Int64) / float64(row.Total)
	}
	return stats, nil
}
