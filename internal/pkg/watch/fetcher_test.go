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
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPStatusFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/execution/exec-1/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"execution_id": "exec-1",
			"status": "RUNNING",
			"progress": {"percentage": 66.7, "current_operation": "1d:breakout"},
			"errors": [
				{"message": "first"},
				{"message": "exchange API 503"}
			]
		}`))
	}))
	defer srv.Close()

	fetcher := NewHTTPStatusFetcher(srv.URL)
	status, err := fetcher.Fetch(context.Background(), "exec-1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if status.Status != "RUNNING" {
		t.Errorf("Status = %q, want RUNNING", status.Status)
	}
	if status.Percentage != 66.7 {
		t.Errorf("Percentage = %v, want 66.7", status.Percentage)
	}
	if status.CurrentOperation != "1d:breakout" {
		t.Errorf("CurrentOperation = %q", status.CurrentOperation)
	}
	if status.LastError != "exchange API 503" {
		t.Errorf("LastError = %q, want most recent error", status.LastError)
	}
}

func TestHTTPStatusFetcherServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	fetcher := NewHTTPStatusFetcher(srv.URL)
	if _, err := fetcher.Fetch(context.Background(), "exec-1"); err == nil {
		t.Fatal("Fetch on HTTP 500 returned nil error")
	}
}
