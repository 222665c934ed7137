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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticServesDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{}"), 0o644))

	r := MustNew()
	r.Static("/assets", dir)

	w := performRequest(r, http.MethodGet, "/assets/css/site.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())

	// HEAD is registered alongside GET.
	w = performRequest(r, http.MethodHead, "/assets/css/site.css")
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodGet, "/assets/nope.css")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "robots.txt")
	require.NoError(t, os.WriteFile(path, []byte("User-agent: *\n"), 0o644))

	r := MustNew()
	r.StaticFile("/robots.txt", path)

	w := performRequest(r, http.MethodGet, "/robots.txt")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User-agent")
}

func TestStaticPanicsOnEmptyPrefix(t *testing.T) {
	t.Parallel()

	r := MustNew()
	assert.Panics(t, func() { r.Static("", "./public") })
	assert.Panics(t, func() { r.StaticFile("/x", "") })
}
