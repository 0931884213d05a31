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

package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/quantrix/quantrace/pkg/log"
)

// AccessLogMiddleware logs requests that fail or exceed the slow threshold.
// Healthy fast requests are not logged; polling clients hit the status
// endpoint often enough that logging every one would drown the output.
func AccessLogMiddleware(slow time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Errorw("http request failed", "ip", c.IP(), "method", c.Method(), "path", c.Path(), "status", status, "latency", latency, "error", err)
		case status >= fiber.StatusBadRequest:
			log.Warnw("http request rejected", "ip", c.IP(), "method", c.Method(), "path", c.Path(), "status", status, "latency", latency, "error", err)
		case latency >= slow:
			log.Warnw("slow http request", "ip", c.IP(), "method", c.Method(), "path", c.Path(), "status", status, "latency", latency)
		}

		return err
	}
}
