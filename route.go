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

// Route is an immutable registered route: an HTTP method, a compiled path
// pattern, a terminal handler, and the route-specific middleware that run
// after the router's global middleware.
//
// Routes are created during registration and live for the lifetime of the
// router; there is no unregistration. Because a Route never changes after
// construction, it is safe for concurrent reads from request goroutines.
type Route struct {
	method     string
	pattern    *Pattern
	handler    HandlerFunc
	middleware []HandlerFunc
}

// newRoute builds a Route. The middleware slice is copied so later mutation
// of the caller's slice cannot leak into the registry.
func newRoute(method, path string, handler HandlerFunc, middleware []HandlerFunc) *Route {
	var mw []HandlerFunc
	if len(middleware) > 0 {
		mw = make([]HandlerFunc, len(middleware))
		copy(mw, middleware)
	}

	return &Route{
		method:     method,
		pattern:    CompilePattern(path),
		handler:    handler,
		middleware: mw,
	}
}

// Method returns the route's HTTP method.
func (rt *Route) Method() string {
	return rt.method
}

// Pattern returns the route's compiled path pattern.
func (rt *Route) Pattern() *Pattern {
	return rt.pattern
}

// RouteInfo describes a registered route for introspection.
type RouteInfo struct {
	Method     string   // HTTP method
	Path       string   // Template as registered, e.g. "/users/:id"
	Params     []string // Parameter names in declaration order
	Wildcard   bool     // Template ends in "/*"
	Middleware int      // Number of route-specific middleware
}
