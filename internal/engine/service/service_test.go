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
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quantrix/quantrace/internal/engine/model"
	"github.com/quantrix/quantrace/internal/engine/repo"
	"github.com/quantrix/quantrace/internal/pkg/analysis"
	"github.com/quantrix/quantrace/pkg/cache"
	"github.com/quantrix/quantrace/pkg/database"
)

// testEnv bundles the service stack over a throwaway sqlite database.
type testEnv struct {
	services *Services
	repos    *repo.Repositories
	db       *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repos, err := repo.ProvideRepositories(database.NewTestDatabase(db))
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	catalog := analysis.NewCatalog(analysis.Config{})
	services := ProvideServices(repos, catalog, cache.NopCache{}, nil)
	return &testEnv{services: services, repos: repos, db: db}
}

// startedExecution creates and starts an execution covering the full catalog.
func (env *testEnv) startedExecution(t *testing.T, symbols ...string) *model.Execution {
	t.Helper()
	if len(symbols) == 0 {
		symbols = []string{"BTC"}
	}
	e, err := env.services.Execution.Create(context.Background(), model.ExecutionTypeSymbolAddition, symbols, "test")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := env.services.Execution.Start(context.Background(), e.ExecutionID); err != nil {
		t.Fatalf("start: %v", err)
	}
	return e
}

// reload fetches the stored execution.
func (env *testEnv) reload(t *testing.T, executionID string) *model.Execution {
	t.Helper()
	e, err := env.repos.Execution.Get(context.Background(), executionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil {
		t.Fatalf("execution %s not found", executionID)
	}
	return e
}
