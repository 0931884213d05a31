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
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"

	"github.com/quantrix/quantrace/internal/engine/config"
	"github.com/quantrix/quantrace/internal/engine/service"
	pkghttp "github.com/quantrix/quantrace/pkg/http"
	"github.com/quantrix/quantrace/pkg/http/middleware"
)

// ProviderSet provides the router.
var ProviderSet = wire.NewSet(NewRouter)

// Router wires HTTP handlers to the service layer.
type Router struct {
	Http     *pkghttp.Http
	appConf  *config.AppConfig
	services *service.Services
}

// NewRouter creates the router.
func NewRouter(appConf *config.AppConfig, services *service.Services) *Router {
	httpConf := appConf.Http
	httpConf.SetDefaults()
	return &Router{
		Http:     &httpConf,
		appConf:  appConf,
		services: services,
	}
}

// Router builds the fiber application with all routes registered.
func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(rt.Http.IdleTimeout) * time.Second,
		BodyLimit:             rt.Http.BodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(middleware.CorsMiddleware())
	app.Use(middleware.TraceMiddleware())
	app.Use(middleware.HttpMetricsMiddleware())
	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware(rt.Http.SlowThreshold()))
	}

	api := app.Group("/api")
	rt.symbolRouter(api)
	rt.executionRouter(api)
	rt.adminRouter(api)

	return app
}

// respondErr maps the service error taxonomy onto HTTP status codes.
func (rt *Router) respondErr(c *fiber.Ctx, err error) error {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		return pkghttp.ValidationErr(c, validationErr.Error(), "rejected", validationErr.Suggestion)
	case errors.As(err, &notFoundErr):
		return pkghttp.Err(c, fiber.StatusNotFound, notFoundErr.Error())
	case isConflict(err):
		return pkghttp.Err(c, fiber.StatusConflict, err.Error())
	default:
		return pkghttp.Err(c, fiber.StatusInternalServerError, err.Error())
	}
}

func isConflict(err error) bool {
	var (
		alreadyStarted *service.AlreadyStartedError
		terminal       *service.TerminalExecutionError
		nothingToRetry *service.NothingToRetryError
		stillRunning   *service.ExecutionStillRunningError
		notRunning     *service.NotRunningError
	)
	return errors.As(err, &alreadyStarted) ||
		errors.As(err, &terminal) ||
		errors.As(err, &nothingToRetry) ||
		errors.As(err, &stillRunning) ||
		errors.As(err, &notRunning)
}
