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

import "strings"

// Group represents a set of routes sharing a path prefix and middleware.
// Groups can nest; a nested group inherits and extends its parent's prefix
// and middleware.
//
// Example:
//
//	api := r.Group("/api/v1", authMiddleware)
//	api.GET("/users", listUsers)          // GET /api/v1/users
//	admin := api.Group("/admin", adminOnly)
//	admin.DELETE("/users/:id", deleteUser) // DELETE /api/v1/admin/users/:id
type Group struct {
	router     *Router
	prefix     string
	middleware []HandlerFunc
}

// Group creates a route group with the given path prefix and middleware.
func (r *Router) Group(prefix string, middleware ...HandlerFunc) *Group {
	return &Group{
		router:     r,
		prefix:     normalizePrefix(prefix),
		middleware: append([]HandlerFunc(nil), middleware...),
	}
}

// Group creates a nested group whose prefix and middleware extend this
// group's.
func (g *Group) Group(prefix string, middleware ...HandlerFunc) *Group {
	merged := make([]HandlerFunc, 0, len(g.middleware)+len(middleware))
	merged = append(merged, g.middleware...)
	merged = append(merged, middleware...)
	return &Group{
		router:     g.router,
		prefix:     g.prefix + normalizePrefix(prefix),
		middleware: merged,
	}
}

// Use appends middleware to the group. Only routes registered afterwards
// see the new middleware.
func (g *Group) Use(middleware ...HandlerFunc) *Group {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// Handle registers a route under the group's prefix with the group's
// middleware prepended to any route-level middleware.
func (g *Group) Handle(method, path string, handler HandlerFunc, middleware ...HandlerFunc) *Group {
	combined := make([]HandlerFunc, 0, len(g.middleware)+len(middleware))
	combined = append(combined, g.middleware...)
	combined = append(combined, middleware...)
	g.router.Handle(method, g.joinPath(path), handler, combined...)
	return g
}

// GET registers a GET route under the group's prefix.
func (g *Group) GET(path string, handler HandlerFunc, middleware ...HandlerFunc) *Group {
	return g.Handle("GET", path, handler, middleware...)
}

// POST registers a POST route under the group's prefix.
func (g *Group) POST(path string, handler HandlerFunc, middleware ...HandlerFunc) *Group {
	return g.Handle("POST", path, handler, middleware...)
}

// PUT registers a PUT route under the group's prefix.
func (g *Group) PUT(path string, handler HandlerFunc, middleware ...HandlerFunc) *Group {
	return g.Handle("PUT", path, handler, middleware...)
}

// DELETE registers a DELETE route under the group's prefix.
func (g *Group) DELETE(path string, handler HandlerFunc, middleware ...HandlerFunc) *Group {
	return g.Handle("DELETE", path, handler, middleware...)
}

// PATCH registers a PATCH route under the group's prefix.
func (g *Group) PATCH(path string, handler HandlerFunc, middleware ...HandlerFunc) *Group {
	return g.Handle("PATCH", path, handler, middleware...)
}

// joinPath joins the group prefix and a route path without producing
// doubled or missing slashes.
func (g *Group) joinPath(path string) string {
	if path == "" || path == "/" {
		if g.prefix == "" {
			return "/"
		}
		return g.prefix
	}

	var b strings.Builder
	b.Grow(len(g.prefix) + len(path) + 1)
	b.WriteString(g.prefix)
	if !strings.HasPrefix(path, "/") {
		b.WriteByte('/')
	}
	b.WriteString(path)
	return b.String()
}

// normalizePrefix ensures a leading slash and no trailing slash.
func normalizePrefix(prefix string) string {
	if prefix == "" || prefix == "/" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimSuffix(prefix, "/")
}
