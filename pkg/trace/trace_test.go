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

package trace

import (
	"context"
	"testing"
)

func TestTraceDefaults(t *testing.T) {
	var cfg Trace
	cfg.SetDefaults()

	if cfg.Endpoint != "127.0.0.1:4318" {
		t.Errorf("Endpoint = %q, want 127.0.0.1:4318", cfg.Endpoint)
	}
	if cfg.ServiceName != "quantrace" {
		t.Errorf("ServiceName = %q, want quantrace", cfg.ServiceName)
	}
	if cfg.SampleRatio != 1 {
		t.Errorf("SampleRatio = %v, want 1", cfg.SampleRatio)
	}
}

func TestDisabledProvider(t *testing.T) {
	p, err := NewProvider(Trace{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on disabled provider: %v", err)
	}

	// With no installed provider the global tracer is a no-op; Start must
	// still hand back a usable span.
	ctx, span := Start(context.Background(), "noop")
	if ctx == nil {
		t.Fatal("Start returned nil context")
	}
	if span.IsRecording() {
		t.Error("span is recording without an installed provider")
	}
	span.End()
}
