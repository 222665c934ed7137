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

func TestMiddlewareOrdering(t *testing.T) {
	t.Parallel()

	var order []string
	trace := func(name string) HandlerFunc {
		return func(c *Context) {
			order = append(order, name)
			c.Next()
		}
	}

	r := MustNew()
	r.Use(trace("g1"), trace("g2"))
	r.GET("/x", func(c *Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	}, trace("r1"))

	performRequest(r, http.MethodGet, "/x")
	assert.Equal(t, []string{"g1", "g2", "r1", "handler"}, order)
}

func TestMiddlewareShortCircuitByOmission(t *testing.T) {
	t.Parallel()

	handlerRuns := 0
	r := MustNew()
	r.Use(func(c *Context) {
		// Not calling Next stops the chain here.
		c.String(http.StatusUnauthorized, "denied")
	})
	r.GET("/secret", func(c *Context) {
		handlerRuns++
		c.Status(http.StatusOK)
	})

	w := performRequest(r, http.MethodGet, "/secret")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "denied", w.Body.String())
	assert.Zero(t, handlerRuns, "handler must not run after short-circuit")
}

func TestMiddlewareAbort(t *testing.T) {
	t.Parallel()

	handlerRuns := 0
	r := MustNew()
	r.Use(func(c *Context) {
		c.String(http.StatusForbidden, "no")
		c.Abort()
		c.Next() // Next after Abort is inert.
	})
	r.GET("/x", func(c *Context) {
		handlerRuns++
	})

	w := performRequest(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, handlerRuns)
	assert.True(t, w.Body.Len() > 0)
}

func TestMiddlewareDoubleNextIsHarmless(t *testing.T) {
	t.Parallel()

	handlerRuns := 0
	r := MustNew()
	r.Use(func(c *Context) {
		c.Next()
		// Calling Next again must not re-run handlers that already ran.
		c.Next()
	})
	r.GET("/once", func(c *Context) {
		handlerRuns++
		c.Status(http.StatusOK)
	})

	performRequest(r, http.MethodGet, "/once")
	assert.Equal(t, 1, handlerRuns)
}

func TestMiddlewareWrapsAroundHandler(t *testing.T) {
	t.Parallel()

	var order []string
	r := MustNew()
	r.Use(func(c *Context) {
		order = append(order, "before")
		c.Next()
		order = append(order, "after")
	})
	r.GET("/x", func(c *Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	})

	performRequest(r, http.MethodGet, "/x")
	assert.Equal(t, []string{"before", "handler", "after"}, order)
}

func TestMiddlewarePanicReachesErrorHandler(t *testing.T) {
	t.Parallel()

	calls := 0
	r := MustNew(WithErrorHandler(func(c *Context, err error) {
		calls++
		c.Status(http.StatusInternalServerError)
	}))
	r.Use(func(c *Context) {
		panic("middleware broke")
	})
	r.GET("/x", func(c *Context) {})

	w := performRequest(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, calls)
}

func TestMiddlewareRegistrationAfterRouteOnlyAffectsNewRequests(t *testing.T) {
	t.Parallel()

	// Global middleware applies per request at dispatch time, so routes
	// registered before the middleware still see it.
	seen := false
	r := MustNew()
	r.GET("/x", func(c *Context) { c.Status(http.StatusOK) })
	r.Use(func(c *Context) {
		seen = true
		c.Next()
	})

	performRequest(r, http.MethodGet, "/x")
	assert.True(t, seen)
}
