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
	"net/http"
	"strings"
)

// Handle registers a route for the given HTTP method and path pattern.
// The pattern may contain named parameters (:id), optional trailing
// parameters (:tab?), and a trailing wildcard (*). Compilation always
// succeeds; a malformed pattern degrades to matching its literal prefix.
//
// Route-level middleware runs after global middleware and before the
// handler, in the order given.
func (r *Router) Handle(method, path string, handler HandlerFunc, middleware ...HandlerFunc) *Router {
	if handler == nil {
		panic(fmt.Errorf("%w: %s %s", ErrNilHandler, method, path))
	}
	route := newRoute(strings.ToUpper(method), path, handler, middleware)

	r.mu.Lock()
	r.routes = append(r.routes, route)
	r.mu.Unlock()
	return r
}

// GET registers a route that matches GET requests.
//
// Example:
//
//	r.GET("/users/:id", func(c *router.Context) {
//	    c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
//	})
func (r *Router) GET(path string, handler HandlerFunc, middleware ...HandlerFunc) *Router {
	return r.Handle(http.MethodGet, path, handler, middleware...)
}

// POST registers a route that matches POST requests.
func (r *Router) POST(path string, handler HandlerFunc, middleware ...HandlerFunc) *Router {
	return r.Handle(http.MethodPost, path, handler, middleware...)
}

// PUT registers a route that matches PUT requests.
func (r *Router) PUT(path string, handler HandlerFunc, middleware ...HandlerFunc) *Router {
	return r.Handle(http.MethodPut, path, handler, middleware...)
}

// DELETE registers a route that matches DELETE requests.
func (r *Router) DELETE(path string, handler HandlerFunc, middleware ...HandlerFunc) *Router {
	return r.Handle(http.MethodDelete, path, handler, middleware...)
}

// PATCH registers a route that matches PATCH requests.
func (r *Router) PATCH(path string, handler HandlerFunc, middleware ...HandlerFunc) *Router {
	return r.Handle(http.MethodPatch, path, handler, middleware...)
}

// HEAD registers a route that matches HEAD requests.
func (r *Router) HEAD(path string, handler HandlerFunc, middleware ...HandlerFunc) *Router {
	return r.Handle(http.MethodHead, path, handler, middleware...)
}

// OPTIONS registers a route that matches OPTIONS requests. Note that when
// CORS is enabled, preflight OPTIONS requests are answered before routing
// and never reach OPTIONS routes.
func (r *Router) OPTIONS(path string, handler HandlerFunc, middleware ...HandlerFunc) *Router {
	return r.Handle(http.MethodOptions, path, handler, middleware...)
}

// Routes returns a snapshot of all registered routes in registration
// order, for diagnostics and startup logging.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]RouteInfo, 0, len(r.routes))
	for _, route := range r.routes {
		infos = append(infos, RouteInfo{
			Method:     route.method,
			Path:       route.pattern.String(),
			Params:     route.pattern.ParamNames(),
			Wildcard:   route.pattern.Wildcard(),
			Middleware: len(route.middleware),
		})
	}
	return infos
}
