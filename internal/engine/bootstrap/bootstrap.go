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

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/quantrix/quantrace/internal/engine/config"
	"github.com/quantrix/quantrace/internal/engine/repo"
	"github.com/quantrix/quantrace/internal/engine/router"
	"github.com/quantrix/quantrace/internal/engine/service"
	"github.com/quantrix/quantrace/pkg/cache"
	"github.com/quantrix/quantrace/pkg/cron"
	"github.com/quantrix/quantrace/pkg/database"
	"github.com/quantrix/quantrace/pkg/log"
	"github.com/quantrix/quantrace/pkg/metrics"
	"github.com/quantrix/quantrace/pkg/safe"
	"github.com/quantrix/quantrace/pkg/shutdown"
	"github.com/quantrix/quantrace/pkg/trace"
)

// App bundles the assembled application.
type App struct {
	HttpApp       *fiber.App
	MetricsServer *metrics.Server
	Scheduler     *cron.Scheduler
	Logger        *log.Logger
	AppConf       *config.AppConfig
	Services      *service.Services
	Repos         *repo.Repositories
	ShutdownMgr   *shutdown.Manager
}

// InitAppFunc is the wire-generated application constructor signature.
type InitAppFunc func(configPath string) (*App, func(), error)

// NewApp assembles the application from its wired components.
func NewApp(
	rt *router.Router,
	logger *log.Logger,
	metricsServer *metrics.Server,
	appConf *config.AppConfig,
	db database.IDatabase,
	c cache.ICache,
	repos *repo.Repositories,
	services *service.Services,
	tracer *trace.Provider,
	shutdownMgr *shutdown.Manager,
) (*App, func(), error) {
	app := &App{
		HttpApp:       rt.Router(),
		MetricsServer: metricsServer,
		Scheduler:     cron.NewScheduler(),
		Logger:        logger,
		AppConf:       appConf,
		Services:      services,
		Repos:         repos,
		ShutdownMgr:   shutdownMgr,
	}

	// Whether the zombie sweep also runs periodically is a deployment
	// decision; the admin endpoint is always available.
	if spec := appConf.Zombie.SweepSchedule; spec != "" {
		threshold := appConf.Zombie.Threshold()
		err := app.Scheduler.Add(spec, "zombie-sweep", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			result, err := services.Zombie.Sweep(ctx, threshold)
			if err != nil {
				log.Errorw("scheduled zombie sweep failed", "error", err)
				return
			}
			if result.CleanedCount > 0 {
				log.Infow("scheduled zombie sweep finished", "cleaned_count", result.CleanedCount)
			}
		})
		if err != nil {
			return nil, nil, fmt.Errorf("invalid zombie sweep schedule %q: %w", spec, err)
		}
	}

	shutdownMgr.Register("cache", func(ctx context.Context) error {
		return c.Close()
	})
	shutdownMgr.Register("tracer", func(ctx context.Context) error {
		return tracer.Shutdown(ctx)
	})

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(appConf.Http.ShutdownTimeout)*time.Second)
		defer cancel()

		app.Scheduler.Stop()

		if app.HttpApp != nil {
			log.Info("Shutting down HTTP server...")
			if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
				log.Errorw("Failed to stop HTTP server", "error", err)
			}
		}
		if metricsServer != nil {
			log.Info("Shutting down metrics server...")
			if err := metricsServer.Stop(shutdownCtx); err != nil {
				log.Errorw("Failed to stop metrics server", "error", err)
			}
		}

		shutdownMgr.Shutdown(shutdownCtx)
		_ = log.Sync()
	}

	return app, cleanup, nil
}

// Bootstrap initializes the application through the wire-generated constructor.
func Bootstrap(configPath string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap failed: %w", err)
	}
	return app, cleanup, nil
}

// Run starts the servers and blocks until an exit signal arrives.
func Run(app *App, cleanup func()) {
	defer cleanup()

	safe.Go("metrics-server", func() {
		if err := app.MetricsServer.Start(); err != nil {
			log.Errorw("metrics server exited", "error", err)
		}
	})

	app.Scheduler.Start()

	addr := fmt.Sprintf("%s:%d", app.AppConf.Http.Host, app.AppConf.Http.Port)
	safe.Go("http-server", func() {
		log.Infow("http server listening", "addr", addr)
		if err := app.HttpApp.Listen(addr); err != nil {
			log.Errorw("http server exited", "error", err)
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infow("shutdown signal received", "signal", sig.String())
}
