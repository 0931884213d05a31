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
)

// failedWithProgress creates an execution that completed 12 of 18 patterns
// (all but the 1d and 1w timeframes) and then failed.
func failedWithProgress(t *testing.T, env *testEnv) *model.Execution {
	t.Helper()
	ctx := context.Background()
	e := env.startedExecution(t, "BTC")
	for _, tf := range []string{"5m", "15m", "1h", "4h"} {
		for _, st := range []string{"momentum", "mean_reversion", "breakout"} {
			require.NoError(t, env.services.Execution.RecordStep(ctx, e.ExecutionID, tf+":"+st, model.StatusSuccess, "", ""))
		}
	}
	require.NoError(t, env.services.Execution.Complete(ctx, e.ExecutionID, model.StatusFailed))
	return env.reload(t, e.ExecutionID)
}

func TestRetryIncompleteOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	source := failedWithProgress(t, env)
	require.Equal(t, 12, source.CompletedTasks)

	retry, err := env.services.Retry.Retry(ctx, source.ExecutionID, RetryModeIncompleteOnly)
	require.NoError(t, err)

	assert.NotEqual(t, source.ExecutionID, retry.ExecutionID)
	assert.Equal(t, 6, retry.TotalTasks)
	assert.Equal(t, 0, retry.CompletedTasks)
	assert.Equal(t, model.StatusPending, retry.Status)
	assert.Equal(t, source.Subjects, retry.Subjects)
	assert.Equal(t, "retry-of-"+source.ExecutionID, retry.TriggeredBy)

	// Only the missing timeframes remain in the work set.
	for key := range retry.Patterns {
		assert.Contains(t, []model.Timeframe{"1d", "1w"}, key.Timeframe)
	}

	// History is immutable: the source keeps its failed state and counters.
	after := env.reload(t, source.ExecutionID)
	assert.Equal(t, model.StatusFailed, after.Status)
	assert.Equal(t, 12, after.CompletedTasks)
}

func TestRetryFull(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	source := failedWithProgress(t, env)

	retry, err := env.services.Retry.Retry(ctx, source.ExecutionID, RetryModeFull)
	require.NoError(t, err)
	assert.Equal(t, 18, retry.TotalTasks)
	assert.Equal(t, 0, retry.CompletedTasks)
}

// A full rerun of a restricted retry still covers the whole catalog.
func TestRetryFullOfRestrictedRetry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	source := failedWithProgress(t, env)

	restricted, err := env.services.Retry.Retry(ctx, source.ExecutionID, RetryModeIncompleteOnly)
	require.NoError(t, err)
	require.NoError(t, env.services.Execution.Start(ctx, restricted.ExecutionID))
	require.NoError(t, env.services.Execution.Complete(ctx, restricted.ExecutionID, model.StatusFailed))

	full, err := env.services.Retry.Retry(ctx, restricted.ExecutionID, RetryModeFull)
	require.NoError(t, err)
	assert.Equal(t, 18, full.TotalTasks)
}

func TestRetryStillRunning(t *testing.T) {
	env := newTestEnv(t)
	e := env.startedExecution(t, "BTC")

	_, err := env.services.Retry.Retry(context.Background(), e.ExecutionID, RetryModeFull)
	var stillRunning *ExecutionStillRunningError
	assert.ErrorAs(t, err, &stillRunning)
}

func TestRetryNothingIncomplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	e := env.startedExecution(t, "BTC")
	for _, tf := range []string{"5m", "15m", "1h", "4h", "1d", "1w"} {
		for _, st := range []string{"momentum", "mean_reversion", "breakout"} {
			require.NoError(t, env.services.Execution.RecordStep(ctx, e.ExecutionID, tf+":"+st, model.StatusSuccess, "", ""))
		}
	}
	require.NoError(t, env.services.Execution.Complete(ctx, e.ExecutionID, model.StatusSuccess))

	_, err := env.services.Retry.Retry(ctx, e.ExecutionID, RetryModeIncompleteOnly)
	var nothing *NothingToRetryError
	assert.ErrorAs(t, err, &nothing)
}

func TestRetryUnknownExecution(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.services.Retry.Retry(context.Background(), "exec-missing", RetryModeFull)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRetryBadMode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	e := env.startedExecution(t, "BTC")
	require.NoError(t, env.services.Execution.Complete(ctx, e.ExecutionID, model.StatusFailed))

	_, err := env.services.Retry.Retry(ctx, e.ExecutionID, RetryMode("PARTIAL"))
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRetryLatestForSymbol(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	source := failedWithProgress(t, env)

	retry, err := env.services.Retry.RetryLatestForSymbol(ctx, " btc ", RetryModeIncompleteOnly)
	require.NoError(t, err)
	assert.Equal(t, "retry-of-"+source.ExecutionID, retry.TriggeredBy)

	_, err = env.services.Retry.RetryLatestForSymbol(ctx, "SOL", RetryModeFull)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = env.services.Retry.RetryLatestForSymbol(ctx, "not a symbol", RetryModeFull)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
