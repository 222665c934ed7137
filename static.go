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
	"net/http"
	"strings"
)

// Static serves files from the filesystem directory root under the given
// URL prefix, using a wildcard route.
//
// http.FileServer cleans paths, so traversal like "../../etc/passwd"
// cannot escape root. The directory should still contain only files meant
// to be public.
//
// Example:
//
//	r.Static("/assets", "./public") // ./public/css/a.css at /assets/css/a.css
func (r *Router) Static(prefix, root string) *Router {
	return r.StaticFS(prefix, http.Dir(root))
}

// StaticFS is like Static but serves from any http.FileSystem. Both GET
// and HEAD routes are registered, since HEAD must work wherever GET does.
func (r *Router) StaticFS(prefix string, fs http.FileSystem) *Router {
	if prefix == "" {
		panic("router: static prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	prefix = strings.TrimSuffix(prefix, "/")

	fileServer := http.StripPrefix(prefix, http.FileServer(fs))
	handler := func(c *Context) {
		fileServer.ServeHTTP(c.Response, c.Request)
	}

	pattern := prefix + "/*"
	r.GET(pattern, handler)
	r.HEAD(pattern, handler)
	return r
}

// StaticFile serves one file at one URL path, for things like favicon.ico
// or robots.txt.
func (r *Router) StaticFile(path, filepath string) *Router {
	if path == "" {
		panic("router: static file path cannot be empty")
	}
	if filepath == "" {
		panic("router: static file source cannot be empty")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	handler := func(c *Context) {
		c.ServeFile(filepath)
	}
	r.GET(path, handler)
	r.HEAD(path, handler)
	return r
}
