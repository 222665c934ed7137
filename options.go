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

import "log/slog"

// Option configures a Router during construction.
type Option func(*Router)

// WithLogger sets the structured logger used for router and request
// logging. Without this option the router logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCORS enables cross-origin resource sharing for the given origin.
// CORS headers are attached to every response and preflight OPTIONS
// requests receive an immediate 204 without touching routes or middleware.
//
// Example:
//
//	r := router.MustNew(router.WithCORS("https://app.example.com"))
func WithCORS(allowOrigin string) Option {
	return func(r *Router) {
		r.cors = &corsConfig{allowOrigin: allowOrigin}
	}
}

// WithObservability plugs in a recorder that sees every request's
// lifecycle, including unmatched and preflight requests. See the metrics
// package for an OpenTelemetry-backed implementation.
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(r *Router) {
		r.observability = recorder
	}
}

// WithNotFound sets the handler invoked when no route matches.
// Equivalent to calling NoRoute after construction.
func WithNotFound(handler HandlerFunc) Option {
	return func(r *Router) {
		if handler != nil {
			r.notFound = handler
		}
	}
}

// WithErrorHandler sets the handler invoked when a route handler or
// middleware panics. Equivalent to calling OnError after construction.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(r *Router) {
		if handler != nil {
			r.errorHandler = handler
		}
	}
}

// WithServerTimeouts overrides the HTTP server timeouts used by Serve and
// ServeTLS. Zero values disable the corresponding timeout; negative values
// are rejected by New.
func WithServerTimeouts(timeouts ServerTimeouts) Option {
	return func(r *Router) {
		r.serverTimeouts = timeouts
	}
}

// WithH2C enables HTTP/2 cleartext support on Serve. Useful behind load
// balancers that terminate TLS and speak h2c to the backend.
func WithH2C() Option {
	return func(r *Router) {
		r.enableH2C = true
	}
}

// WithoutCancellationCheck disables the per-step check of the request
// context between chain elements. With the check disabled, a chain keeps
// running after the client goes away; writes will simply fail.
func WithoutCancellationCheck() Option {
	return func(r *Router) {
		r.checkCancellation = false
	}
}
