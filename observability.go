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

package router

import (
	"context"
	"log/slog"
	"net/http"
)

// ObservabilityRecorder provides observability lifecycle hooks for HTTP
// requests. Implementations typically combine metrics collection and access
// logging; the metrics subpackage provides an OpenTelemetry-backed one.
//
// Lifecycle:
//  1. The router calls OnRequestStart(ctx, req) → (enrichedCtx, state) before
//     routing. The enriched context is always attached to the request. A nil
//     state excludes the request from the remaining hooks (e.g. /health).
//  2. If state != nil, the router calls WrapResponseWriter and, after the
//     handler chain finishes, OnRequestEnd with the matched route pattern.
//  3. BuildRequestLogger is called after routing to produce the
//     request-scoped logger exposed via Context.Logger.
//
// routePattern is the matched template (e.g. "/users/:id"), or a sentinel
// such as "_not_found" or "_options_preflight" when no route ran.
// Implementations should label metrics with the pattern, never the raw path,
// to avoid cardinality explosion.
//
// All methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	// OnRequestStart is called before routing begins. It returns an
	// enriched context and an opaque state token; nil state excludes the
	// request from wrapping and OnRequestEnd.
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)

	// WrapResponseWriter may wrap the writer to capture response metadata.
	// If state is nil it must return the writer unchanged.
	WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter

	// BuildRequestLogger returns the request-scoped logger. Implementations
	// may return nil to fall back to the router's logger.
	BuildRequestLogger(ctx context.Context, req *http.Request, routePattern string) *slog.Logger

	// OnRequestEnd is called once request handling completes, only when
	// state != nil. The writer implements ResponseInfo when the router
	// wrapped it, which is every dispatched request.
	OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routePattern string)
}

// ResponseInfo is implemented by response writers that track response
// metadata. ObservabilityRecorder implementations type-assert the writer in
// OnRequestEnd to extract the status code and body size.
type ResponseInfo interface {
	StatusCode() int
	Size() int64
}
