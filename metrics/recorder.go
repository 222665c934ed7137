// Copyright 2025 The Strada Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"strada.dev/router"
)

// requestState carries per-request metric data between OnRequestStart and
// OnRequestEnd.
type requestState struct {
	start      time.Time
	attributes []attribute.KeyValue
}

var _ router.ObservabilityRecorder = (*Recorder)(nil)

// OnRequestStart begins timing the request and bumps the in-flight gauge.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	state := &requestState{start: time.Now()}

	state.attributes = make([]attribute.KeyValue, 3, 6)
	state.attributes[0] = r.serviceNameAttr
	state.attributes[1] = r.serviceVersionAttr
	state.attributes[2] = attribute.String("http.method", req.Method)

	r.activeRequests.Add(ctx, 1, metric.WithAttributes(state.attributes...))
	return ctx, state
}

// WrapResponseWriter returns w unchanged; the router's own writer already
// tracks status and size, which OnRequestEnd reads back.
func (r *Recorder) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	return w
}

// BuildRequestLogger returns nil so the router falls back to its own
// logger. The recorder only collects metrics.
func (r *Recorder) BuildRequestLogger(_ context.Context, _ *http.Request, _ string) *slog.Logger {
	return nil
}

// OnRequestEnd records duration, count, response size, and errors for the
// request, labeled by route pattern rather than raw path to keep
// cardinality bounded. Unmatched and preflight requests arrive with their
// sentinel patterns and are recorded like any other outcome.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routePattern string) {
	s, ok := state.(*requestState)
	if !ok || s == nil {
		return
	}

	status := 0
	var size int64
	if info, ok := w.(router.ResponseInfo); ok {
		status = info.StatusCode()
		size = info.Size()
	}

	attrs := append(s.attributes,
		attribute.String("http.route", routePattern),
		attribute.Int("http.status_code", status),
	)
	set := metric.WithAttributes(attrs...)

	elapsed := time.Since(s.start).Seconds()
	r.requestDuration.Record(ctx, elapsed, set)
	r.requestCount.Add(ctx, 1, set)
	r.responseSize.Record(ctx, size, set)
	if status >= http.StatusInternalServerError {
		r.errorCount.Add(ctx, 1, set)
	}

	// In-flight gauge uses the start-time attributes so add and subtract
	// always land on the same series.
	r.activeRequests.Add(ctx, -1, metric.WithAttributes(s.attributes...))
}
