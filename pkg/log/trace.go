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

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Ctx returns the logger annotated with the trace and span ids of the span
// carried by ctx, so log lines correlate with the request trace. Without a
// recording span it is the plain logger.
func Ctx(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return L()
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return L()
	}
	return L().With(
		"trace_id", sc.TraceID().String(),
		"span_id", sc.SpanID().String(),
	)
}
