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

// Package router provides a pattern-based HTTP router with middleware
// chaining, path parameter extraction, and pluggable observability.
//
// # Key Features
//
//   - Path templates with named parameters (:id), optional trailing
//     parameters (:tab?), and wildcards (*)
//   - Trailing-slash insensitive matching
//   - Global, group, and route-level middleware with explicit
//     continuation via Context.Next
//   - Context pooling for request handling
//   - Route grouping for hierarchical API organization
//   - CORS with automatic preflight handling
//   - Pluggable observability (see the metrics subpackage for an
//     OpenTelemetry-backed recorder)
//   - Built-in middleware subpackages (timeout, requestid)
//
// # Dispatch Semantics
//
// Routes are scanned in registration order and the first route whose
// method and pattern both match wins. Register more specific routes before
// more general ones:
//
//	r.GET("/users/me", currentUser)  // must come first
//	r.GET("/users/:id", userByID)
//
// Pattern compilation is total: any template yields a usable route, so
// registration never fails on a malformed path.
//
// # Middleware
//
// A middleware receives the Context and decides whether to continue the
// chain by calling c.Next(). Returning without calling Next stops the
// chain, which is how authentication and rate-limiting middleware
// short-circuit:
//
//	r.Use(func(c *router.Context) {
//	    if !authorized(c.Request) {
//	        c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
//	        return
//	    }
//	    c.Next()
//	})
//
// A panic anywhere in the chain is contained to its request and routed to
// the configured error handler; other requests are unaffected.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "net/http"
//	    "strada.dev/router"
//	)
//
//	func main() {
//	    r := router.MustNew()
//
//	    r.GET("/", func(c *router.Context) {
//	        c.JSON(http.StatusOK, map[string]string{"message": "Hello World"})
//	    })
//
//	    r.GET("/users/:id", func(c *router.Context) {
//	        c.JSON(http.StatusOK, map[string]string{"user_id": c.Param("id")})
//	    })
//
//	    http.ListenAndServe(":8080", r)
//	}
package router
