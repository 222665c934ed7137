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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePatternNeverFails(t *testing.T) {
	t.Parallel()

	// Compilation is total: any input yields a usable pattern.
	inputs := []string{
		"",
		"/",
		"users",
		"/users",
		"/users/:id",
		"/users/:id/:tab?",
		"/files/*",
		"/a/:/:b",
		"///",
		"/weird/(unclosed",
		"/:?",
	}
	for _, input := range inputs {
		p := CompilePattern(input)
		require.NotNil(t, p, "input %q", input)
		assert.Equal(t, input, p.String())
		// Matches must not panic on arbitrary paths either.
		p.Matches("/anything/at/all")
	}
}

func TestPatternStaticMatch(t *testing.T) {
	t.Parallel()

	p := CompilePattern("/users")
	assert.True(t, p.Matches("/users"))
	assert.True(t, p.Matches("/users/"), "trailing slash is insignificant")
	assert.False(t, p.Matches("/users/42"))
	assert.False(t, p.Matches("/user"))
	assert.Empty(t, p.ParamNames())
}

func TestPatternRootMatch(t *testing.T) {
	t.Parallel()

	p := CompilePattern("/")
	assert.True(t, p.Matches("/"))
	assert.False(t, p.Matches("/users"))
}

func TestPatternRequiredParam(t *testing.T) {
	t.Parallel()

	p := CompilePattern("/users/:id")
	require.Equal(t, []string{"id"}, p.ParamNames())

	params := p.MatchParams("/users/42")
	assert.Equal(t, map[string]string{"id": "42"}, params)

	// A required parameter needs a non-empty segment.
	assert.False(t, p.Matches("/users"))
	assert.False(t, p.Matches("/users/"))
	assert.False(t, p.Matches("/users/42/extra"))
}

func TestPatternMultipleParams(t *testing.T) {
	t.Parallel()

	p := CompilePattern("/orgs/:org/repos/:repo")
	params := p.MatchParams("/orgs/acme/repos/widget")
	assert.Equal(t, map[string]string{"org": "acme", "repo": "widget"}, params)
}

func TestPatternOptionalParam(t *testing.T) {
	t.Parallel()

	p := CompilePattern("/users/:id/:tab?")
	require.Equal(t, []string{"id", "tab"}, p.ParamNames())

	t.Run("present", func(t *testing.T) {
		t.Parallel()
		params := p.MatchParams("/users/42/posts")
		assert.Equal(t, map[string]string{"id": "42", "tab": "posts"}, params)
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		params := p.MatchParams("/users/42")
		assert.Equal(t, map[string]string{"id": "42"}, params)
		_, hasTab := params["tab"]
		assert.False(t, hasTab, "omitted optional parameter must not be set")
	})

	t.Run("absent with trailing slash", func(t *testing.T) {
		t.Parallel()
		assert.True(t, p.Matches("/users/42/"))
	})
}

func TestPatternWildcard(t *testing.T) {
	t.Parallel()

	p := CompilePattern("/static/*")
	assert.True(t, p.Wildcard())
	assert.True(t, p.Matches("/static"))
	assert.True(t, p.Matches("/static/css/site.css"))
	assert.True(t, p.Matches("/static/a/b/c/d"))
	assert.False(t, p.Matches("/assets/site.css"))
}

func TestPatternTrailingSlashEquivalence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
	}{
		{"/users", "/users/"},
		{"/users/", "/users"},
		{"/users/:id", "/users/7/"},
		{"/orgs/:org/repos", "/orgs/acme/repos/"},
	}
	for _, tt := range tests {
		p := CompilePattern(tt.pattern)
		assert.True(t, p.Matches(tt.path), "pattern %q should match %q", tt.pattern, tt.path)
	}
}

func TestPatternMatchValues(t *testing.T) {
	t.Parallel()

	p := CompilePattern("/a/:x/:y?")
	values, ok := p.Match("/a/1")
	require.True(t, ok)
	require.Len(t, values, 2)
	assert.Equal(t, "1", values[0])
	assert.Equal(t, "", values[1], "absent optional reports empty value")

	_, ok = p.Match("/b/1")
	assert.False(t, ok)
}

func TestPatternNoMatchReturnsEmptyParams(t *testing.T) {
	t.Parallel()

	p := CompilePattern("/users/:id")
	params := p.MatchParams("/orders/42")
	assert.NotNil(t, params)
	assert.Empty(t, params)
}
