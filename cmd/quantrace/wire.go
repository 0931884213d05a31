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

//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/quantrix/quantrace/internal/engine/bootstrap"
	"github.com/quantrix/quantrace/internal/engine/config"
	"github.com/quantrix/quantrace/internal/engine/repo"
	"github.com/quantrix/quantrace/internal/engine/router"
	"github.com/quantrix/quantrace/internal/engine/service"
	"github.com/quantrix/quantrace/internal/pkg/analysis"
	"github.com/quantrix/quantrace/pkg/cache"
	"github.com/quantrix/quantrace/pkg/database"
	"github.com/quantrix/quantrace/pkg/log"
	"github.com/quantrix/quantrace/pkg/metrics"
	"github.com/quantrix/quantrace/pkg/shutdown"
	"github.com/quantrix/quantrace/pkg/trace"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// configuration layer
		config.ProviderSet,
		// logging layer (depends on config)
		log.ProviderSet,
		// database layer (depends on config, log)
		database.ProviderSet,
		// cache layer (depends on config)
		cache.ProviderSet,
		// metrics layer (depends on config)
		metrics.ProviderSet,
		// tracing layer (depends on config)
		trace.ProviderSet,
		// analysis catalog (depends on config)
		analysis.ProviderSet,
		// repository layer (depends on database)
		repo.ProviderSet,
		// service layer (depends on repo, analysis, cache, metrics)
		service.ProviderSet,
		// router layer (depends on config, service)
		router.ProviderSet,
		// shutdown coordination
		shutdown.ProviderSet,
		// application layer
		bootstrap.NewApp,
	))
}
