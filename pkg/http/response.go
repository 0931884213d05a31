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

package http

import "github.com/gofiber/fiber/v2"

// ErrorBody is the error envelope returned on 4xx/5xx responses.
type ErrorBody struct {
	Error            string `json:"error"`
	ValidationStatus string `json:"validation_status,omitempty"`
	Suggestion       string `json:"suggestion,omitempty"`
}

// OK writes payload with status 200.
func OK(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusOK).JSON(payload)
}

// Created writes payload with status 201.
func Created(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusCreated).JSON(payload)
}

// Err writes an error envelope with the given status code.
func Err(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorBody{Error: msg})
}

// ValidationErr writes a 400 envelope carrying the rejected input status and a
// corrective suggestion.
func ValidationErr(c *fiber.Ctx, msg, validationStatus, suggestion string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{
		Error:            msg,
		ValidationStatus: validationStatus,
		Suggestion:       suggestion,
	})
}
