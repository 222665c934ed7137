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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// ErrorKey is the attribute-bag key under which the dispatcher stores a
// recovered handler failure before invoking the error handler.
const ErrorKey = "error"

// maxInlineParams is the number of route parameters stored in the fixed
// arrays before overflowing to the Params map.
const maxInlineParams = 8

// Context represents the context of the current HTTP request.
// It provides access to the request/response objects, extracted path
// parameters, an attribute bag for passing values between middleware and the
// handler, and the middleware chain continuation via Next.
//
// ⚠️ THREAD SAFETY: Context is NOT thread-safe. A Context is bound to a
// single request and must only be accessed by the goroutine handling it.
//
// ⚠️ MEMORY SAFETY: Context objects are pooled and reused. Do not retain
// references beyond the handler's lifetime; copy any data you need before
// starting goroutines.
//
// Parameter storage is hybrid: the first parameters live in fixed-size
// arrays and the Params map is only allocated for routes with many
// parameters. Each Context owns its caches exclusively; nothing request
// scoped is ever stored in shared state.
type Context struct {
	// Core request fields - accessed on every HTTP request.
	Request  *http.Request       // The HTTP request object
	Response http.ResponseWriter // The HTTP response writer
	handlers []HandlerFunc       // Effective chain: global middleware, route middleware, handler
	router   *Router             // Owning router

	index      int32 // Cursor into handlers; strictly increasing
	paramCount int32 // Number of parameters in the arrays

	// Parameter storage.
	paramKeys   [maxInlineParams]string
	paramValues [maxInlineParams]string

	// Params holds overflow parameters for routes with many captures.
	// Nil unless needed.
	Params map[string]string

	routePattern string         // Matched route template, or a sentinel
	logger       *slog.Logger   // Request-scoped logger
	keys         map[string]any // Attribute bag; lazily allocated
	aborted      bool           // Set by Abort
	errors       []error        // Collected via Error; lazily allocated
}

// HandlerFunc defines the handler function signature for route handlers and
// middleware. Middleware call c.Next() to continue the chain; a middleware
// that returns without calling Next stops the chain right there.
//
// Example middleware:
//
//	func Auth() router.HandlerFunc {
//	    return func(c *router.Context) {
//	        if !authenticated(c.Request) {
//	            c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
//	            return // chain stops: handler never runs
//	        }
//	        c.Next()
//	    }
//	}
type HandlerFunc func(*Context)

// NewContext creates a context for the given request and response.
// Primarily useful for testing; during normal operation contexts come from
// an internal pool.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{
		Request:  r,
		Response: w,
		index:    -1,
	}
}

// Next runs the next element of the middleware chain. Each middleware is
// expected to call Next at most once; the terminal handler simply never
// calls it. Because the cursor only moves forward, a second Next call from
// the same middleware advances past the remainder instead of re-entering
// handlers that already ran.
//
// Next returns without running anything further once the chain was aborted
// or the request's context is done.
func (c *Context) Next() {
	c.index++
	if c.aborted || int(c.index) >= len(c.handlers) {
		return
	}
	if c.router != nil && c.router.checkCancellation &&
		c.Request != nil && c.Request.Context().Err() != nil {
		return
	}
	c.handlers[c.index](c)
}

// Abort stops the handler chain from executing any further handlers.
// Handlers that already ran are unaffected.
func (c *Context) Abort() {
	c.aborted = true
}

// IsAborted returns true if the handler chain has been aborted.
func (c *Context) IsAborted() bool {
	return c.aborted
}

// RoutePattern returns the matched route template (e.g. "/users/:id"), or a
// sentinel such as "_not_found" when no route matched.
func (c *Context) RoutePattern() string {
	return c.routePattern
}

// Param returns the value of the path parameter by key, or "" if absent.
//
// Example:
//
//	r.GET("/users/:id", func(c *router.Context) {
//	    userID := c.Param("id")
//	    c.JSON(http.StatusOK, map[string]string{"user_id": userID})
//	})
func (c *Context) Param(key string) string {
	for i := range c.paramCount {
		if c.paramKeys[i] == key {
			return c.paramValues[i]
		}
	}
	// Overflow map for routes with many parameters (rare).
	return c.Params[key]
}

// HasParam reports whether the path parameter participated in the match.
// Optional parameters that were absent from the request path are not set.
func (c *Context) HasParam(key string) bool {
	for i := range c.paramCount {
		if c.paramKeys[i] == key {
			return true
		}
	}
	_, ok := c.Params[key]
	return ok
}

// addParam records one extracted path parameter. Called by the dispatcher
// in declaration order after a route matches.
func (c *Context) addParam(key, value string) {
	if c.paramCount < maxInlineParams {
		c.paramKeys[c.paramCount] = key
		c.paramValues[c.paramCount] = value
		c.paramCount++
		return
	}
	if c.Params == nil {
		c.Params = make(map[string]string, 4)
	}
	c.Params[key] = value
}

// Set stores a value in the request-scoped attribute bag. The bag passes
// data between middleware and the terminal handler; it is cleared when the
// request completes.
func (c *Context) Set(key string, value any) {
	if c.keys == nil {
		c.keys = make(map[string]any, 4)
	}
	c.keys[key] = value
}

// Get retrieves a value from the attribute bag.
func (c *Context) Get(key string) (any, bool) {
	value, ok := c.keys[key]
	return value, ok
}

// MustGet retrieves a value from the attribute bag and panics if absent.
func (c *Context) MustGet(key string) any {
	if value, ok := c.keys[key]; ok {
		return value
	}
	panic(fmt.Sprintf("router: attribute %q does not exist", key))
}

// Error collects an error without immediately writing a response. Multiple
// errors can accumulate during request processing and be handled later by
// middleware or the error handler.
func (c *Context) Error(err error) {
	if err == nil {
		return
	}
	if c.errors == nil {
		c.errors = make([]error, 0, 4)
	}
	c.errors = append(c.errors, err)
}

// Errors returns all errors collected during request processing, or nil.
func (c *Context) Errors() []error {
	if c.errors == nil {
		return nil
	}
	return slices.Clone(c.errors)
}

// HasErrors reports whether any errors were collected.
func (c *Context) HasErrors() bool {
	return len(c.errors) > 0
}

// Logger returns the request-scoped logger for this context.
// Returns a non-nil logger; a no-op logger when none was configured.
func (c *Context) Logger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return noopLogger
}

// JSON sends a JSON response with the specified status code.
// The body is encoded to a buffer first so an encoding failure never leaves
// a half-written response. Returns an error if encoding or writing fails.
func (c *Context) JSON(code int, obj any) error {
	var buf strings.Builder
	buf.Grow(256)

	if err := json.NewEncoder(&buf).Encode(obj); err != nil {
		return fmt.Errorf("JSON encoding failed for type %T: %w", obj, err)
	}

	if c.Response == nil {
		return ErrContextResponseNil
	}
	c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.writeHeaderOnce(code)

	_, writeErr := io.WriteString(c.Response, buf.String())
	return writeErr
}

// IndentedJSON sends a JSON response with indentation for readability.
// Use JSON for compact responses; IndentedJSON for debugging and
// human-facing endpoints.
func (c *Context) IndentedJSON(code int, obj any) error {
	jsonBytes, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("IndentedJSON encoding failed for type %T: %w", obj, err)
	}

	c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.writeHeaderOnce(code)

	_, writeErr := c.Response.Write(jsonBytes)
	return writeErr
}

// YAML sends a YAML response with the specified status code.
func (c *Context) YAML(code int, obj any) error {
	yamlBytes, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("YAML encoding failed for type %T: %w", obj, err)
	}

	c.Response.Header().Set("Content-Type", "application/x-yaml; charset=utf-8")
	c.writeHeaderOnce(code)

	_, writeErr := c.Response.Write(yamlBytes)
	return writeErr
}

// String sends a plain text response. The value is written as-is; for
// formatting use Stringf.
func (c *Context) String(code int, value string) error {
	if c.Response.Header().Get("Content-Type") == "" {
		c.Response.Header().Set("Content-Type", "text/plain")
	}
	c.writeHeaderOnce(code)

	if _, err := io.WriteString(c.Response, value); err != nil {
		return fmt.Errorf("writing string response: %w", err)
	}
	return nil
}

// Stringf sends a formatted plain text response using fmt.Fprintf semantics.
func (c *Context) Stringf(code int, format string, values ...any) error {
	if c.Response.Header().Get("Content-Type") == "" {
		c.Response.Header().Set("Content-Type", "text/plain")
	}
	c.writeHeaderOnce(code)

	if _, err := fmt.Fprintf(c.Response, format, values...); err != nil {
		return fmt.Errorf("writing formatted string response: %w", err)
	}
	return nil
}

// HTML sends an HTML response with the specified status code.
func (c *Context) HTML(code int, html string) error {
	c.Response.Header().Set("Content-Type", "text/html")
	c.writeHeaderOnce(code)

	if _, err := io.WriteString(c.Response, html); err != nil {
		return fmt.Errorf("writing HTML response: %w", err)
	}
	return nil
}

// Data sends raw bytes with a custom content type.
func (c *Context) Data(code int, contentType string, data []byte) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response.Header().Set("Content-Type", contentType)
	c.writeHeaderOnce(code)

	if _, err := c.Response.Write(data); err != nil {
		return fmt.Errorf("writing data response: %w", err)
	}
	return nil
}

// Status sets the HTTP status code for the response.
// This should be called before writing any response body.
func (c *Context) Status(code int) {
	c.writeHeaderOnce(code)
}

// NoContent sends a 204 No Content response.
func (c *Context) NoContent() {
	c.Status(http.StatusNoContent)
}

// Redirect sends an HTTP redirect response with the given status code and
// location. Common codes: 301, 302, 303, 307.
func (c *Context) Redirect(code int, location string) {
	c.Header("Location", location)
	c.Status(code)
}

// Header sets a response header with automatic sanitization. Values
// containing CR or LF are stripped to block header injection; the attempt is
// logged at warning severity.
func (c *Context) Header(key, value string) {
	if strings.ContainsAny(value, "\r\n") {
		c.Logger().Warn("header injection attempt blocked and sanitized",
			"key", key,
			"path", c.Request.URL.Path,
		)
		value = strings.ReplaceAll(value, "\r", "")
		value = strings.ReplaceAll(value, "\n", "")
	}
	c.Response.Header().Set(key, value)
}

// Query returns the value of the URL query parameter by key, or "".
func (c *Context) Query(key string) string {
	if c.Request == nil {
		return ""
	}
	return c.Request.URL.Query().Get(key)
}

// QueryDefault returns the query parameter value or a default if not present.
func (c *Context) QueryDefault(key, defaultValue string) string {
	if value := c.Query(key); value != "" {
		return value
	}
	return defaultValue
}

// FormValue returns the value of the named form parameter from the request
// body, for both urlencoded and multipart forms.
func (c *Context) FormValue(key string) string {
	return c.Request.FormValue(key)
}

// FormValueDefault returns the form parameter value or a default if not present.
func (c *Context) FormValueDefault(key, defaultValue string) string {
	if value := c.FormValue(key); value != "" {
		return value
	}
	return defaultValue
}

// BindJSON decodes the request body as JSON into v.
func (c *Context) BindJSON(v any) error {
	defer c.Request.Body.Close()
	if err := json.NewDecoder(c.Request.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding JSON body: %w", err)
	}
	return nil
}

// SetCookie sets a cookie on the response. The value is URL-escaped.
func (c *Context) SetCookie(name, value string, maxAge int, path, domain string, secure, httpOnly bool) {
	http.SetCookie(c.Response, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		MaxAge:   maxAge,
		Path:     path,
		Domain:   domain,
		Secure:   secure,
		HttpOnly: httpOnly,
	})
}

// GetCookie returns the value of the named cookie, URL-unescaped.
func (c *Context) GetCookie(name string) (string, error) {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return "", err
	}
	return url.QueryUnescape(cookie.Value)
}

// ServeFile serves a file from the filesystem to the client, with content
// type detection, range requests, and caching headers handled by net/http.
func (c *Context) ServeFile(filepath string) {
	http.ServeFile(c.Response, c.Request, filepath)
}

// writeHeaderOnce writes the status code unless headers already went out,
// avoiding "superfluous response.WriteHeader call" noise.
func (c *Context) writeHeaderOnce(code int) {
	if rw, ok := c.Response.(*responseWriter); ok {
		if !rw.Written() {
			rw.WriteHeader(code)
		}
		return
	}
	c.Response.WriteHeader(code)
}

// reset clears all request-scoped state so the context can return to the pool.
func (c *Context) reset() {
	c.Request = nil
	c.Response = nil
	c.handlers = nil
	c.router = nil
	c.index = -1
	c.routePattern = ""
	c.logger = nil
	c.aborted = false
	c.errors = nil
	c.keys = nil

	for i := range c.paramCount {
		c.paramKeys[i] = ""
		c.paramValues[i] = ""
	}
	c.paramCount = 0
	// Drop the overflow map entirely; routes needing it are rare enough
	// that keeping it alive across requests is not worth the bookkeeping.
	c.Params = nil
}
