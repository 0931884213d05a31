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
	"github.com/google/wire"

	"github.com/quantrix/quantrace/internal/engine/repo"
	"github.com/quantrix/quantrace/internal/pkg/analysis"
	"github.com/quantrix/quantrace/pkg/cache"
	"github.com/quantrix/quantrace/pkg/metrics"
)

// Services bundles the service layer for injection.
type Services struct {
	Execution *ExecutionService
	Zombie    *ZombieService
	Retry     *RetryService
	Stats     *StatsService
}

// ProviderSet provides service layer dependencies.
var ProviderSet = wire.NewSet(ProvideServices)

// ProvideServices wires the service bundle.
func ProvideServices(
	repos *repo.Repositories,
	catalog *analysis.Catalog,
	c cache.ICache,
	collectors *metrics.Collectors,
) *Services {
	execSvc := NewExecutionService(repos.Execution, catalog, c, collectors)
	return &Services{
		Execution: execSvc,
		Zombie:    NewZombieService(repos.Execution, collectors),
		Retry:     NewRetryService(repos.Execution, execSvc, collectors),
		Stats:     NewStatsService(repos.Execution),
	}
}
