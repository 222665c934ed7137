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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupPrefix(t *testing.T) {
	t.Parallel()

	r := MustNew()
	api := r.Group("/api/v1")
	api.GET("/users", func(c *Context) {
		c.String(http.StatusOK, "users")
	})

	w := performRequest(r, http.MethodGet, "/api/v1/users")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "users", w.Body.String())

	w = performRequest(r, http.MethodGet, "/users")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGroupMiddleware(t *testing.T) {
	t.Parallel()

	var order []string
	trace := func(name string) HandlerFunc {
		return func(c *Context) {
			order = append(order, name)
			c.Next()
		}
	}

	r := MustNew()
	r.Use(trace("global"))
	api := r.Group("/api", trace("group"))
	api.GET("/thing", func(c *Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	}, trace("route"))

	performRequest(r, http.MethodGet, "/api/thing")
	assert.Equal(t, []string{"global", "group", "route", "handler"}, order)
}

func TestGroupNesting(t *testing.T) {
	t.Parallel()

	var order []string
	trace := func(name string) HandlerFunc {
		return func(c *Context) {
			order = append(order, name)
			c.Next()
		}
	}

	r := MustNew()
	api := r.Group("/api", trace("api"))
	admin := api.Group("/admin", trace("admin"))
	admin.DELETE("/users/:id", func(c *Context) {
		order = append(order, "delete:"+c.Param("id"))
		c.Status(http.StatusNoContent)
	})

	w := performRequest(r, http.MethodDelete, "/api/admin/users/7")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"api", "admin", "delete:7"}, order)
}

func TestGroupPrefixNormalization(t *testing.T) {
	t.Parallel()

	r := MustNew()
	g := r.Group("api/") // no leading slash, trailing slash
	g.GET("users", func(c *Context) { c.Status(http.StatusOK) })

	w := performRequest(r, http.MethodGet, "/api/users")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGroupUseOnlyAffectsLaterRoutes(t *testing.T) {
	t.Parallel()

	var seen []string
	r := MustNew()
	g := r.Group("/g")
	g.GET("/before", func(c *Context) { c.Status(http.StatusOK) })
	g.Use(func(c *Context) {
		seen = append(seen, c.Request.URL.Path)
		c.Next()
	})
	g.GET("/after", func(c *Context) { c.Status(http.StatusOK) })

	performRequest(r, http.MethodGet, "/g/before")
	performRequest(r, http.MethodGet, "/g/after")
	assert.Equal(t, []string{"/g/after"}, seen)
}
