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

package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quantrix/quantrace/internal/engine/config"
	"github.com/quantrix/quantrace/internal/engine/model"
	"github.com/quantrix/quantrace/internal/engine/repo"
	"github.com/quantrix/quantrace/internal/engine/service"
	"github.com/quantrix/quantrace/internal/pkg/analysis"
	"github.com/quantrix/quantrace/pkg/cache"
	"github.com/quantrix/quantrace/pkg/database"
)

type routerEnv struct {
	app      *fiber.App
	services *service.Services
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	repos, err := repo.ProvideRepositories(database.NewTestDatabase(db))
	require.NoError(t, err)

	services := service.ProvideServices(repos, analysis.NewCatalog(analysis.Config{}), cache.NopCache{}, nil)
	rt := NewRouter(&config.AppConfig{}, services)
	return &routerEnv{app: rt.Router(), services: services}
}

func (env *routerEnv) request(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]any
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &payload))
	}
	return resp.StatusCode, payload
}

func TestAddSymbol(t *testing.T) {
	env := newRouterEnv(t)

	code, payload := env.request(t, http.MethodPost, "/api/symbol/add", `{"symbol":"hype"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "HYPE", payload["symbol"])
	assert.Contains(t, payload["execution_id"], "exec-")
	warnings, _ := payload["warnings"].([]any)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "normalized")
}

func TestAddSymbolValidation(t *testing.T) {
	env := newRouterEnv(t)

	code, payload := env.request(t, http.MethodPost, "/api/symbol/add", `{"symbol":"not a symbol"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "rejected", payload["validation_status"])
	assert.NotEmpty(t, payload["suggestion"])
}

func TestExecutionStatusNotFound(t *testing.T) {
	env := newRouterEnv(t)
	code, payload := env.request(t, http.MethodGet, "/api/execution/exec-missing/status", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, payload["error"])
}

func TestExecutionStatusFlow(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	_, payload := env.request(t, http.MethodPost, "/api/symbol/add", `{"symbol":"BTC"}`)
	executionID := payload["execution_id"].(string)

	require.NoError(t, env.services.Execution.Start(ctx, executionID))
	require.NoError(t, env.services.Execution.RecordStep(ctx, executionID, "1h:momentum", model.StatusSuccess, "", ""))

	code, payload := env.request(t, http.MethodGet, "/api/execution/"+executionID+"/status", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "RUNNING", payload["status"])
	progress := payload["progress"].(map[string]any)
	assert.InDelta(t, 5.6, progress["percentage"], 0.01)
}

func TestRerunConflictWhileRunning(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	_, payload := env.request(t, http.MethodPost, "/api/symbol/add", `{"symbol":"BTC"}`)
	executionID := payload["execution_id"].(string)
	require.NoError(t, env.services.Execution.Start(ctx, executionID))

	code, _ := env.request(t, http.MethodPost, "/api/execution-logs/"+executionID+"/rerun", `{"mode":"FULL"}`)
	assert.Equal(t, http.StatusConflict, code)
}

func TestRerunFinishedExecution(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	_, payload := env.request(t, http.MethodPost, "/api/symbol/add", `{"symbol":"BTC"}`)
	executionID := payload["execution_id"].(string)
	require.NoError(t, env.services.Execution.Start(ctx, executionID))
	require.NoError(t, env.services.Execution.Complete(ctx, executionID, model.StatusFailed))

	code, payload := env.request(t, http.MethodPost, "/api/execution-logs/"+executionID+"/rerun", `{"mode":"FULL"}`)
	assert.Equal(t, http.StatusOK, code)
	newID := payload["new_execution_id"].(string)
	assert.NotEqual(t, executionID, newID)
}

// "statistics" must route to the aggregate endpoint, not be parsed as an id.
func TestStatisticsRouteNotShadowed(t *testing.T) {
	env := newRouterEnv(t)
	code, payload := env.request(t, http.MethodGet, "/api/execution-logs/statistics?days=30", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, payload, "total_executions")
}

func TestListExecutionLogs(t *testing.T) {
	env := newRouterEnv(t)
	env.request(t, http.MethodPost, "/api/symbol/add", `{"symbol":"BTC"}`)
	env.request(t, http.MethodPost, "/api/symbol/add", `{"symbol":"ETH"}`)

	code, payload := env.request(t, http.MethodGet, "/api/execution-logs/?symbol=BTC", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), payload["total"])

	code, payload = env.request(t, http.MethodGet, "/api/execution-logs/", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), payload["total"])
}

func TestSymbolsStatusEndpoint(t *testing.T) {
	env := newRouterEnv(t)
	env.request(t, http.MethodPost, "/api/symbol/add", `{"symbol":"BTC"}`)

	code, payload := env.request(t, http.MethodGet, "/api/symbols/status", "")
	assert.Equal(t, http.StatusOK, code)
	pending, _ := payload["pending"].([]any)
	assert.Len(t, pending, 1)
}

func TestAdminCleanupZombies(t *testing.T) {
	env := newRouterEnv(t)
	code, payload := env.request(t, http.MethodPost, "/api/admin/cleanup-zombies", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), payload["cleaned_count"])
}

func TestAdminResetExecution(t *testing.T) {
	env := newRouterEnv(t)
	ctx := context.Background()

	_, payload := env.request(t, http.MethodPost, "/api/symbol/add", `{"symbol":"BTC"}`)
	executionID := payload["execution_id"].(string)
	require.NoError(t, env.services.Execution.Start(ctx, executionID))

	code, _ := env.request(t, http.MethodPost, "/api/admin/reset-execution", `{"execution_id":"`+executionID+`"}`)
	assert.Equal(t, http.StatusOK, code)

	snap, err := env.services.Execution.Status(ctx, executionID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, snap.Status)

	// Resetting again conflicts: the execution is no longer running.
	code, _ = env.request(t, http.MethodPost, "/api/admin/reset-execution", `{"execution_id":"`+executionID+`"}`)
	assert.Equal(t, http.StatusConflict, code)
}
