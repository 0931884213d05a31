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

	pkghttp "github.com/quantrix/quantrace/pkg/http"
)

func (rt *Router) adminRouter(r fiber.Router) {
	admin := r.Group("/admin")
	{
		admin.Post("/cleanup-zombies", rt.cleanupZombies)
		admin.Post("/reset-execution", rt.resetExecution)
	}
}

func (rt *Router) cleanupZombies(c *fiber.Ctx) error {
	result, err := rt.services.Zombie.Sweep(c.UserContext(), rt.appConf.Zombie.Threshold())
	if err != nil {
		return rt.respondErr(c, err)
	}
	return pkghttp.OK(c, result)
}

func (rt *Router) resetExecution(c *fiber.Ctx) error {
	var req struct {
		ExecutionID string `json:"execution_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return pkghttp.Err(c, fiber.StatusBadRequest, "invalid request body")
	}
	executionID := strings.TrimSpace(req.ExecutionID)
	if executionID == "" {
		return pkghttp.Err(c, fiber.StatusBadRequest, "execution_id is required")
	}
	if err := rt.services.Execution.Cancel(c.UserContext(), executionID); err != nil {
		return rt.respondErr(c, err)
	}
	return pkghttp.OK(c, fiber.Map{"status": "ok"})
}
