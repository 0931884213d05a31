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
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/quantrix/quantrace/internal/engine/model"
	"github.com/quantrix/quantrace/internal/engine/service"
	pkghttp "github.com/quantrix/quantrace/pkg/http"
)

func (rt *Router) symbolRouter(r fiber.Router) {
	symbol := r.Group("/symbol")
	{
		symbol.Post("/add", rt.addSymbol)
		symbol.Post("/retry", rt.retrySymbol)
	}
	r.Get("/symbols/status", rt.symbolsStatus)
}

func (rt *Router) addSymbol(c *fiber.Ctx) error {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if err := c.BodyParser(&req); err != nil {
		return pkghttp.Err(c, fiber.StatusBadRequest, "invalid request body")
	}

	exec, err := rt.services.Execution.Create(
		c.UserContext(),
		model.ExecutionTypeSymbolAddition,
		[]string{req.Symbol},
		"operator",
	)
	if err != nil {
		return rt.respondErr(c, err)
	}

	warnings := []string{}
	if strings.ToUpper(strings.TrimSpace(req.Symbol)) != exec.Subjects[0] {
		warnings = append(warnings, "symbol normalized to "+exec.Subjects[0])
	}
	return pkghttp.OK(c, fiber.Map{
		"execution_id": exec.ExecutionID,
		"symbol":       exec.Subjects[0],
		"warnings":     warnings,
	})
}

func (rt *Router) retrySymbol(c *fiber.Ctx) error {
	var req struct {
		Symbol          string `json:"symbol"`
		RetryIncomplete bool   `json:"retry_incomplete"`
	}
	if err := c.BodyParser(&req); err != nil {
		return pkghttp.Err(c, fiber.StatusBadRequest, "invalid request body")
	}

	mode := service.RetryModeFull
	if req.RetryIncomplete {
		mode = service.RetryModeIncompleteOnly
	}
	exec, err := rt.services.Retry.RetryLatestForSymbol(c.UserContext(), req.Symbol, mode)
	if err != nil {
		return rt.respondErr(c, err)
	}
	return pkghttp.OK(c, fiber.Map{
		"execution_id": exec.ExecutionID,
	})
}

func (rt *Router) symbolsStatus(c *fiber.Ctx) error {
	days := rt.Http.QueryInt(c, "days")
	grouped, err := rt.services.Stats.SymbolsStatus(c.UserContext(), days)
	if err != nil {
		return rt.respondErr(c, err)
	}
	return pkghttp.OK(c, grouped)
}
