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

package log

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCtxAnnotatesSpanIDs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mu.Lock()
	prev := global
	global = zap.New(core).Sugar()
	mu.Unlock()
	defer func() {
		mu.Lock()
		global = prev
		mu.Unlock()
	}()

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01},
		SpanID:     trace.SpanID{0x02},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	Ctx(ctx).Infow("traced")
	Ctx(context.Background()).Infow("untraced")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}

	traced := entries[0].ContextMap()
	if traced["trace_id"] != sc.TraceID().String() {
		t.Errorf("trace_id = %v, want %s", traced["trace_id"], sc.TraceID())
	}
	if traced["span_id"] != sc.SpanID().String() {
		t.Errorf("span_id = %v, want %s", traced["span_id"], sc.SpanID())
	}

	untraced := entries[1].ContextMap()
	if _, ok := untraced["trace_id"]; ok {
		t.Error("untraced entry carries a trace_id")
	}
}
