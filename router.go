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
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorHandler handles failures recovered from the handler chain. It runs
// at most once per request, after the chain has stopped.
type ErrorHandler func(c *Context, err error)

// sentinel route patterns reported to observability when no route ran.
const (
	patternNotFound  = "_not_found"
	patternPreflight = "_options_preflight"
)

// Router is an HTTP router with pattern matching, middleware chains, CORS
// preflight handling, and route groups.
//
// Registration (GET, POST, Use, Group) is guarded by a mutex and safe to
// interleave with request serving, though the usual shape is to register
// everything up front and then serve.
type Router struct {
	mu         sync.RWMutex
	routes     []*Route
	middleware []HandlerFunc

	logger        *slog.Logger
	notFound      HandlerFunc
	errorHandler  ErrorHandler
	cors          *corsConfig
	observability ObservabilityRecorder

	serverTimeouts    ServerTimeouts
	enableH2C         bool
	checkCancellation bool
}

// New creates a Router with the given options.
//
// Example:
//
//	r, err := router.New(
//	    router.WithLogger(slog.Default()),
//	    router.WithCORS("https://app.example.com"),
//	)
func New(opts ...Option) (*Router, error) {
	r := &Router{
		logger:            noopLogger,
		checkCancellation: true,
		serverTimeouts:    defaultServerTimeouts(),
	}
	r.notFound = defaultNotFound
	r.errorHandler = defaultErrorHandler

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew is like New but panics on error. Use it for static configuration
// where an invalid option is a programming mistake.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router: %v", err))
	}
	return r
}

func (r *Router) validate() error {
	if r.serverTimeouts.ReadTimeout < 0 || r.serverTimeouts.WriteTimeout < 0 ||
		r.serverTimeouts.IdleTimeout < 0 || r.serverTimeouts.ReadHeaderTimeout < 0 {
		return ErrServerTimeoutInvalid
	}
	return nil
}

// Use registers global middleware that runs for every matched route, in
// registration order, before any route-level middleware.
func (r *Router) Use(middleware ...HandlerFunc) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
	return r
}

// NoRoute replaces the handler invoked when no route matches. The default
// writes a plain 404.
func (r *Router) NoRoute(handler HandlerFunc) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	if handler != nil {
		r.notFound = handler
	}
	return r
}

// EnableCORS turns on cross-origin resource sharing for the given origin
// after construction. Equivalent to the WithCORS option.
func (r *Router) EnableCORS(allowOrigin string) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cors = &corsConfig{allowOrigin: allowOrigin}
	return r
}

// OnError replaces the handler invoked when a route handler or middleware
// panics. The default writes a plain 500 if nothing was written yet.
func (r *Router) OnError(handler ErrorHandler) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	if handler != nil {
		r.errorHandler = handler
	}
	return r
}

// Logger returns the router's configured logger.
func (r *Router) Logger() *slog.Logger {
	return r.logger
}

// Then composes two handlers into one: first runs with second as its
// immediate continuation, then the rest of the chain follows. Useful for
// pairing a middleware with a handler outside of route registration.
func Then(first, second HandlerFunc) HandlerFunc {
	return func(c *Context) {
		// The effective chain is built per request, so splicing is safe.
		c.handlers = slices.Insert(c.handlers, int(c.index)+1, second)
		first(c)
	}
}

// findRoute scans routes in registration order and returns the first whose
// method and pattern both match, along with the captured parameter values
// aligned with the pattern's parameter names.
func (r *Router) findRoute(method, path string) (*Route, []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, route := range r.routes {
		if !strings.EqualFold(route.method, method) {
			continue
		}
		if values, ok := route.pattern.Match(path); ok {
			return route, values
		}
	}
	return nil, nil
}

// ServeHTTP implements http.Handler and dispatches the request.
//
// Flow: observability start, CORS headers and preflight short-circuit,
// route lookup, chain execution with panic recovery, write-failure
// logging, observability end.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	var obsState any
	if r.observability != nil {
		ctx, obsState = r.observability.OnRequestStart(ctx, req)
		req = req.WithContext(ctx)
		if obsState != nil {
			w = r.observability.WrapResponseWriter(w, obsState)
		}
	}

	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	r.mu.RLock()
	cors := r.cors
	r.mu.RUnlock()

	if cors != nil {
		cors.applyHeaders(rw, req)
		if req.Method == http.MethodOptions {
			// Preflight never reaches routing or middleware.
			rw.WriteHeader(http.StatusNoContent)
			if r.observability != nil && obsState != nil {
				r.observability.OnRequestEnd(ctx, obsState, rw, patternPreflight)
			}
			return
		}
	}

	c := acquireContext()
	defer releaseContext(c)
	c.Request = req
	c.Response = rw
	c.router = r

	route, values := r.findRoute(req.Method, req.URL.Path)
	if route == nil {
		c.routePattern = patternNotFound
		c.logger = r.requestLogger(req, patternNotFound)
		// Visible to the not-found chain via Errors.
		c.Error(ErrRouteNotFound)
		r.mu.RLock()
		c.handlers = append(slices.Clone(r.middleware), r.notFound)
		r.mu.RUnlock()
	} else {
		c.routePattern = route.pattern.String()
		c.logger = r.requestLogger(req, c.routePattern)
		names := route.pattern.ParamNames()
		for i, name := range names {
			// Optional parameters that did not participate stay unset.
			if values[i] != "" {
				c.addParam(name, values[i])
			}
		}
		r.mu.RLock()
		handlers := make([]HandlerFunc, 0, len(r.middleware)+len(route.middleware)+1)
		handlers = append(handlers, r.middleware...)
		handlers = append(handlers, route.middleware...)
		handlers = append(handlers, route.handler)
		r.mu.RUnlock()
		c.handlers = handlers
	}

	r.runChain(c)
	r.logWriteFailure(c, rw)

	if r.observability != nil && obsState != nil {
		r.observability.OnRequestEnd(ctx, obsState, rw, c.routePattern)
	}
}

// runChain starts the middleware chain and contains any panic to this
// request. The recovered error is stored in the attribute bag under
// ErrorKey, annotated on the active trace span when one exists, and handed
// to the error handler exactly once.
func (r *Router) runChain(c *Context) {
	defer func() {
		if rec := recover(); rec != nil {
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("handler panic: %v", rec)
			}
			c.Set(ErrorKey, err)
			c.Error(err)

			if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
				span.SetStatus(codes.Error, "panic recovered")
				span.SetAttributes(
					attribute.Bool("exception.escaped", true),
					attribute.String("exception.type", fmt.Sprintf("%T", rec)),
					attribute.String("exception.message", fmt.Sprintf("%v", rec)),
				)
				span.RecordError(err)
			}

			c.Logger().Error("handler failed",
				"error", err,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			r.errorHandler(c, err)
		}
	}()
	c.Next()
}

// logWriteFailure reports response write errors, distinguishing client
// disconnects (common, low severity) from genuine transport failures.
func (r *Router) logWriteFailure(c *Context, rw *responseWriter) {
	err := rw.WriteError()
	if err == nil {
		return
	}
	if isClientDisconnect(err) {
		c.Logger().Warn("client disconnected during response write",
			"error", err,
			"path", c.Request.URL.Path,
		)
		return
	}
	c.Logger().Error("response write failed",
		"error", err,
		"path", c.Request.URL.Path,
	)
}

// requestLogger builds the request-scoped logger, preferring the
// observability recorder's enriched logger when one is provided.
func (r *Router) requestLogger(req *http.Request, routePattern string) *slog.Logger {
	if r.observability != nil {
		if l := r.observability.BuildRequestLogger(req.Context(), req, routePattern); l != nil {
			return l
		}
	}
	return r.logger
}

// defaultNotFound answers unmatched requests with a plain-text 404 naming
// the requested path.
func defaultNotFound(c *Context) {
	c.String(http.StatusNotFound, "404 not found: "+c.Request.URL.Path)
}

func defaultErrorHandler(c *Context, err error) {
	if rw, ok := c.Response.(*responseWriter); ok && rw.Written() {
		return
	}
	http.Error(c.Response, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
