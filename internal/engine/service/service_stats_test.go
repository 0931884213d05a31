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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrix/quantrace/internal/engine/model"
	"github.com/quantrix/quantrace/internal/engine/repo"
)

func TestListPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		env.startedExecution(t, "BTC")
	}

	summaries, page, total, err := env.services.Stats.List(ctx, &repo.ExecutionQuery{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)

	summaries, page, _, err = env.services.Stats.List(ctx, &repo.ExecutionQuery{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, 3, page.CurrentPage)
}

func TestListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	btc := env.startedExecution(t, "BTC")
	env.startedExecution(t, "ETH")
	require.NoError(t, env.services.Execution.Complete(ctx, btc.ExecutionID, model.StatusSuccess))

	summaries, _, total, err := env.services.Stats.List(ctx, &repo.ExecutionQuery{Symbol: "BTC"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, btc.ExecutionID, summaries[0].ExecutionID)

	_, _, total, err = env.services.Stats.List(ctx, &repo.ExecutionQuery{Status: string(model.StatusRunning)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, _, total, err = env.services.Stats.List(ctx, &repo.ExecutionQuery{Type: string(model.ExecutionTypeScheduledBacktest)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSymbolsStatusBuckets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	running := env.startedExecution(t, "BTC")
	succeeded := env.startedExecution(t, "ETH")
	require.NoError(t, env.services.Execution.Complete(ctx, succeeded.ExecutionID, model.StatusSuccess))
	cancelled := env.startedExecution(t, "SOL")
	require.NoError(t, env.services.Execution.Cancel(ctx, cancelled.ExecutionID))
	pending, err := env.services.Execution.Create(ctx, model.ExecutionTypeSymbolAddition, []string{"DOGE"}, "test")
	require.NoError(t, err)

	grouped, err := env.services.Stats.SymbolsStatus(ctx, 7)
	require.NoError(t, err)

	require.Len(t, grouped.Running, 1)
	assert.Equal(t, running.ExecutionID, grouped.Running[0].ExecutionID)
	require.Len(t, grouped.Completed, 1)
	assert.Equal(t, succeeded.ExecutionID, grouped.Completed[0].ExecutionID)
	require.Len(t, grouped.Pending, 1)
	assert.Equal(t, pending.ExecutionID, grouped.Pending[0].ExecutionID)
	// Cancelled lands in the failed bucket.
	require.Len(t, grouped.Failed, 1)
	assert.Equal(t, cancelled.ExecutionID, grouped.Failed[0].ExecutionID)
}

func TestStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ok := env.startedExecution(t, "BTC")
	require.NoError(t, env.services.Execution.Complete(ctx, ok.ExecutionID, model.StatusSuccess))
	bad := env.startedExecution(t, "ETH")
	require.NoError(t, env.services.Execution.Complete(ctx, bad.ExecutionID, model.StatusFailed))

	stats, err := env.services.Stats.Statistics(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalExecutions)
	assert.InDelta(t, 0.5, stats.SuccessRate, 0.001)
}

func TestStatisticsEmpty(t *testing.T) {
	env := newTestEnv(t)
	stats, err := env.services.Stats.Statistics(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalExecutions)
	assert.Equal(t, 0.0, stats.SuccessRate)
}
