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

package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPStatusFetcher fetches execution status over the REST API.
type HTTPStatusFetcher struct {
	client *resty.Client
}

// NewHTTPStatusFetcher builds a fetcher against baseURL, e.g.
// "http://127.0.0.1:8080".
func NewHTTPStatusFetcher(baseURL string) *HTTPStatusFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	return &HTTPStatusFetcher{client: client}
}

type statusResponse struct {
	ExecutionID string `json:"execution_id"`
	Status      string `json:"status"`
	Progress    struct {
		Percentage       float64 `json:"percentage"`
		CurrentOperation string  `json:"current_operation"`
	} `json:"progress"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Fetch implements StatusFetcher.
func (f *HTTPStatusFetcher) Fetch(ctx context.Context, executionID string) (*Status, error) {
	var body statusResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetResult(&body).
		SetPathParam("id", executionID).
		Get("/api/execution/{id}/status")
	if err != nil {
		return nil, fmt.Errorf("status fetch: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("status fetch: unexpected HTTP %d", resp.StatusCode())
	}

	status := &Status{
		ExecutionID:      body.ExecutionID,
		Status:           body.Status,
		Percentage:       body.Progress.Percentage,
		CurrentOperation: body.Progress.CurrentOperation,
	}
	if n := len(body.Errors); n > 0 {
		status.LastError = body.Errors[n-1].Message
	}
	return status, nil
}
