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

// Package timeout provides middleware that bounds request processing time.
package timeout

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"strada.dev/router"
)

// Option configures the timeout middleware.
type Option func(*config)

type config struct {
	duration     time.Duration
	logger       *slog.Logger
	handler      func(c *router.Context, timeout time.Duration)
	skipPaths    map[string]bool
	skipPrefixes []string
	skipFunc     func(c *router.Context) bool
}

func defaultConfig() *config {
	return &config{
		duration:  30 * time.Second,
		logger:    slog.Default(),
		handler:   defaultHandler,
		skipPaths: make(map[string]bool),
	}
}

func defaultHandler(c *router.Context, timeout time.Duration) {
	c.JSON(http.StatusRequestTimeout, map[string]any{
		"error":   "request timeout",
		"timeout": timeout.String(),
		"path":    c.Request.URL.Path,
	})
}

func shouldSkip(cfg *config, c *router.Context) bool {
	path := c.Request.URL.Path
	if cfg.skipPaths[path] {
		return true
	}
	for _, prefix := range cfg.skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return cfg.skipFunc != nil && cfg.skipFunc(c)
}

// bufferedWriter collects the chain's response privately, the way
// http.TimeoutHandler does. The chain goroutine owns the header map and
// buffer exclusively; the real writer is only ever touched by the request
// goroutine, so a handler that keeps writing past its deadline races with
// nothing.
type bufferedWriter struct {
	header   http.Header
	body     bytes.Buffer
	code     int
	wroteHdr bool
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	if !bw.wroteHdr {
		bw.code = code
		bw.wroteHdr = true
	}
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	if !bw.wroteHdr {
		bw.WriteHeader(http.StatusOK)
	}
	return bw.body.Write(b)
}

// flushTo replays the buffered response onto the real writer. Only called
// after the chain goroutine has finished.
func (bw *bufferedWriter) flushTo(dst http.ResponseWriter) {
	h := dst.Header()
	for key, values := range bw.header {
		h[key] = values
	}
	if bw.wroteHdr {
		dst.WriteHeader(bw.code)
	}
	dst.Write(bw.body.Bytes())
}

// New returns middleware that cancels the request context after the
// configured duration and sends a 408 response. The rest of the chain runs
// in a goroutine against a private buffered writer; on completion the
// buffer is replayed to the client, and on timeout it is discarded, so a
// handler that ignores its context cannot corrupt the 408.
//
// Basic usage with the 30s default:
//
//	r := router.MustNew()
//	r.Use(timeout.New())
//
// Custom duration and skip list:
//
//	r.Use(timeout.New(
//	    timeout.WithDuration(5*time.Second),
//	    timeout.WithSkipPaths("/events"),
//	))
//
// Timeouts cancel the context; they do not interrupt running code. A
// handler that ignores its context keeps running in the background until
// it returns; its output goes to the discarded buffer, and the middleware
// waits for it before handing the request back.
//
// The timeout handler configured via WithHandler runs on a fresh context
// bound to the real response writer. It sees the original request but not
// route parameters or attribute-bag values, which still belong to the
// running chain.
func New(opts ...Option) router.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		if shouldSkip(cfg, c) {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.duration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		// Captured before the goroutine starts: the chain may replace
		// c.Request, and c.Response is about to be swapped.
		req := c.Request
		dst := c.Response

		bw := newBufferedWriter()
		c.Response = bw

		done := make(chan struct{})
		panicChan := make(chan any, 1)

		go func() {
			defer func() {
				if p := recover(); p != nil {
					panicChan <- p
				}
				close(done)
			}()
			c.Next()
		}()

		select {
		case <-done:
			c.Response = dst
			select {
			case p := <-panicChan:
				// Re-panic on the request goroutine so the router's
				// recovery sees it.
				panic(p)
			default:
			}
			bw.flushTo(dst)
		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				// Parent context canceled; nobody is reading the
				// response anymore.
				<-done
				c.Response = dst
				select {
				case p := <-panicChan:
					panic(p)
				default:
				}
				return
			}
			if cfg.logger != nil {
				cfg.logger.Warn("request timeout",
					"method", req.Method,
					"path", req.URL.Path,
					"timeout", cfg.duration.String(),
				)
			}

			// The chain goroutine still owns c and the buffer, so the
			// 408 goes out through a fresh context on the real writer.
			tc := router.NewContext(dst, req)
			cfg.handler(tc, cfg.duration)

			// Wait out the chain before returning the pooled context.
			// Its buffered output is discarded.
			<-done
			c.Response = dst
			select {
			case p := <-panicChan:
				panic(p)
			default:
			}
		}
	}
}
