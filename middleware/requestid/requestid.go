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

// Package requestid provides middleware that assigns each request a unique
// correlation ID for log correlation and distributed tracing.
package requestid

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"os"
	"time"

	"strada.dev/router"
	"strada.dev/router/middleware"

	mathrand "math/rand/v2"
)

// Option configures the requestid middleware.
type Option func(*config)

type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     generateID,
		allowClientID: true,
	}
}

// generateID returns a 32-character hex ID from crypto/rand.
func generateID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is nearly impossible; the fallback still
		// gives better collision resistance than a bare timestamp.
		binary.BigEndian.PutUint64(buf[0:8], uint64(time.Now().UnixNano()))
		binary.BigEndian.PutUint32(buf[8:12], uint32(mathrand.Uint64()))
		binary.BigEndian.PutUint32(buf[12:16], uint32(os.Getpid()))
	}
	return hex.EncodeToString(buf)
}

// New returns middleware that ensures every request carries a request ID:
// a client-supplied ID from the configured header when allowed, otherwise
// a freshly generated one. The ID is echoed in the response header and
// stored on the request context for downstream middleware.
//
// Basic usage:
//
//	r := router.MustNew()
//	r.Use(requestid.New())
//
// Require server-generated IDs:
//
//	r.Use(requestid.New(requestid.WithAllowClientID(false)))
func New(opts ...Option) router.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		var id string
		if cfg.allowClientID {
			id = c.Request.Header.Get(cfg.headerName)
		}
		if id == "" {
			id = cfg.generator()
		}

		c.Response.Header().Set(cfg.headerName, id)

		ctx := context.WithValue(c.Request.Context(), middleware.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Get returns the request ID for the current request, or "" when the
// middleware did not run.
func Get(c *router.Context) string {
	if id, ok := c.Request.Context().Value(middleware.RequestIDKey).(string); ok {
		return id
	}
	return ""
}
