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
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver captures lifecycle calls for assertions.
type recordingObserver struct {
	started  int
	ended    int
	patterns []string
	statuses []int
}

func (o *recordingObserver) OnRequestStart(ctx context.Context, _ *http.Request) (context.Context, any) {
	o.started++
	return ctx, o
}

func (o *recordingObserver) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	return w
}

func (o *recordingObserver) BuildRequestLogger(context.Context, *http.Request, string) *slog.Logger {
	return nil
}

func (o *recordingObserver) OnRequestEnd(_ context.Context, _ any, w http.ResponseWriter, routePattern string) {
	o.ended++
	o.patterns = append(o.patterns, routePattern)
	if info, ok := w.(ResponseInfo); ok {
		o.statuses = append(o.statuses, info.StatusCode())
	}
}

func TestObservabilityMatchedRoute(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	r := MustNew(WithObservability(obs))
	r.GET("/users/:id", func(c *Context) {
		c.Status(http.StatusOK)
	})

	performRequest(r, http.MethodGet, "/users/9")
	require.Equal(t, 1, obs.started)
	require.Equal(t, 1, obs.ended)
	assert.Equal(t, []string{"/users/:id"}, obs.patterns)
	assert.Equal(t, []int{http.StatusOK}, obs.statuses)
}

func TestObservabilityNotFoundSentinel(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	r := MustNew(WithObservability(obs))

	performRequest(r, http.MethodGet, "/missing")
	assert.Equal(t, []string{"_not_found"}, obs.patterns)
	assert.Equal(t, []int{http.StatusNotFound}, obs.statuses)
}

func TestObservabilityPreflightSentinel(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	r := MustNew(WithObservability(obs), WithCORS("*"))
	r.GET("/users", func(c *Context) { c.Status(http.StatusOK) })

	performRequest(r, http.MethodOptions, "/users")
	require.Equal(t, 1, obs.ended)
	assert.Equal(t, []string{"_options_preflight"}, obs.patterns)
	assert.Equal(t, []int{http.StatusNoContent}, obs.statuses)
}

func TestObservabilitySeesEveryRequest(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	r := MustNew(WithObservability(obs))
	r.GET("/a", func(c *Context) { c.Status(http.StatusOK) })

	performRequest(r, http.MethodGet, "/a")
	performRequest(r, http.MethodGet, "/b")
	performRequest(r, http.MethodGet, "/a")

	assert.Equal(t, 3, obs.started)
	assert.Equal(t, 3, obs.ended)
}
