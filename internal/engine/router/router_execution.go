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

	"github.com/quantrix/quantrace/internal/engine/repo"
	"github.com/quantrix/quantrace/internal/engine/service"
	pkghttp "github.com/quantrix/quantrace/pkg/http"
)

func (rt *Router) executionRouter(r fiber.Router) {
	r.Get("/execution/:id/status", rt.executionStatus)

	logs := r.Group("/execution-logs")
	{
		// Static segments before the :id parameter so "statistics" is not
		// captured as an execution id.
		logs.Get("/statistics", rt.executionStatistics)
		logs.Get("/", rt.listExecutionLogs)
		logs.Get("/:id", rt.executionDetail)
		logs.Post("/:id/rerun", rt.rerunExecution)
	}
}

func (rt *Router) executionStatus(c *fiber.Ctx) error {
	executionID := strings.TrimSpace(c.Params("id"))
	if executionID == "" {
		return pkghttp.Err(c, fiber.StatusBadRequest, "execution id is required")
	}
	snap, err := rt.services.Execution.Status(c.UserContext(), executionID)
	if err != nil {
		return rt.respondErr(c, err)
	}
	return pkghttp.OK(c, snap)
}

func (rt *Router) listExecutionLogs(c *fiber.Ctx) error {
	query := &repo.ExecutionQuery{
		Type:     strings.TrimSpace(c.Query("execution_type")),
		Symbol:   strings.ToUpper(strings.TrimSpace(c.Query("symbol"))),
		Status:   strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Days:     rt.Http.QueryInt(c, "days"),
		Page:     rt.Http.QueryInt(c, "page"),
		PageSize: rt.Http.QueryInt(c, "page_size"),
	}
	executions, page, total, err := rt.services.Stats.List(c.UserContext(), query)
	if err != nil {
		return rt.respondErr(c, err)
	}
	return pkghttp.OK(c, fiber.Map{
		"executions": executions,
		"pagination": page,
		"total":      total,
	})
}

func (rt *Router) executionDetail(c *fiber.Ctx) error {
	executionID := strings.TrimSpace(c.Params("id"))
	if executionID == "" {
		return pkghttp.Err(c, fiber.StatusBadRequest, "execution id is required")
	}
	exec, err := rt.services.Execution.Get(c.UserContext(), executionID)
	if err != nil {
		return rt.respondErr(c, err)
	}
	return pkghttp.OK(c, exec)
}

func (rt *Router) rerunExecution(c *fiber.Ctx) error {
	executionID := strings.TrimSpace(c.Params("id"))
	if executionID == "" {
		return pkghttp.Err(c, fiber.StatusBadRequest, "execution id is required")
	}
	exec, err := rt.services.Retry.Retry(c.UserContext(), executionID, service.RetryModeFull)
	if err != nil {
		return rt.respondErr(c, err)
	}
	return pkghttp.OK(c, fiber.Map{
		"new_execution_id": exec.ExecutionID,
	})
}

func (rt *Router) executionStatistics(c *fiber.Ctx) error {
	days := rt.Http.QueryInt(c, "days")
	stats, err := rt.services.Stats.Statistics(c.UserContext(), days)
	if err != nil {
		return rt.respondErr(c, err)
	}
	return pkghttp.OK(c, stats)
}
