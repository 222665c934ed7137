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

package timeout

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"strada.dev/router"
)

func TestFastRequestPassesThrough(t *testing.T) {
	t.Parallel()

	r := router.MustNew()
	r.Use(New(WithDuration(time.Second), WithoutLogging()))
	r.GET("/fast", func(c *router.Context) {
		c.String(http.StatusOK, "done")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "done", w.Body.String())
}

func TestSlowRequestTimesOut(t *testing.T) {
	t.Parallel()

	r := router.MustNew()
	r.Use(New(WithDuration(20*time.Millisecond), WithoutLogging()))
	r.GET("/slow", func(c *router.Context) {
		select {
		case <-time.After(2 * time.Second):
			c.String(http.StatusOK, "too late")
		case <-c.Request.Context().Done():
			return
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "request timeout")
}

func TestLateHandlerWriteDiscardedAfterTimeout(t *testing.T) {
	t.Parallel()

	// A handler that ignores its context and writes after the deadline
	// must not touch the response the client received.
	r := router.MustNew()
	r.Use(New(WithDuration(20*time.Millisecond), WithoutLogging()))
	r.GET("/stubborn", func(c *router.Context) {
		time.Sleep(60 * time.Millisecond)
		c.Response.Header().Set("X-Late", "1")
		c.String(http.StatusOK, "late body")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stubborn", nil))

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "request timeout")
	assert.NotContains(t, w.Body.String(), "late body")
	assert.Empty(t, w.Header().Get("X-Late"))
}

func TestCompletedResponseReplayedWithHeaders(t *testing.T) {
	t.Parallel()

	// Within the deadline, the buffered response reaches the client
	// intact, headers included.
	r := router.MustNew()
	r.Use(New(WithDuration(time.Second), WithoutLogging()))
	r.GET("/ok", func(c *router.Context) {
		c.Response.Header().Set("X-Made-It", "yes")
		c.String(http.StatusCreated, "created")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "created", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Made-It"))
}

func TestCustomTimeoutHandler(t *testing.T) {
	t.Parallel()

	r := router.MustNew()
	r.Use(New(
		WithDuration(20*time.Millisecond),
		WithoutLogging(),
		WithHandler(func(c *router.Context, d time.Duration) {
			c.String(http.StatusGatewayTimeout, "custom: "+d.String())
		}),
	))
	r.GET("/slow", func(c *router.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "custom: 20ms")
}

func TestSkipPaths(t *testing.T) {
	t.Parallel()

	r := router.MustNew()
	r.Use(New(WithDuration(10*time.Millisecond), WithSkipPaths("/stream"), WithoutLogging()))
	r.GET("/stream", func(c *router.Context) {
		// Longer than the timeout; must still complete because the path
		// is exempt.
		time.Sleep(30 * time.Millisecond)
		c.String(http.StatusOK, "streamed")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "streamed", w.Body.String())
}

func TestSkipPredicate(t *testing.T) {
	t.Parallel()

	r := router.MustNew()
	r.Use(New(
		WithDuration(10*time.Millisecond),
		WithoutLogging(),
		WithSkip(func(c *router.Context) bool {
			return c.Request.Header.Get("X-No-Timeout") != ""
		}),
	))
	r.GET("/x", func(c *router.Context) {
		time.Sleep(30 * time.Millisecond)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-No-Timeout", "1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPanicInChainPropagates(t *testing.T) {
	t.Parallel()

	calls := 0
	r := router.MustNew(router.WithErrorHandler(func(c *router.Context, err error) {
		calls++
		c.Status(http.StatusInternalServerError)
	}))
	r.Use(New(WithDuration(time.Second), WithoutLogging()))
	r.GET("/boom", func(c *router.Context) {
		panic("inside timeout goroutine")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, calls)
}
