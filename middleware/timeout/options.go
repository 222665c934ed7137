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
	"log/slog"
	"time"

	"strada.dev/router"
)

// WithDuration sets the timeout duration. Default: 30 seconds.
func WithDuration(d time.Duration) Option {
	return func(cfg *config) {
		cfg.duration = d
	}
}

// WithLogger sets the logger for timeout events. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithoutLogging disables timeout logging.
func WithoutLogging() Option {
	return func(cfg *config) {
		cfg.logger = nil
	}
}

// WithHandler sets the response handler invoked when a request exceeds its
// deadline.
//
// Example:
//
//	timeout.New(timeout.WithHandler(func(c *router.Context, d time.Duration) {
//	    c.String(http.StatusRequestTimeout, "took longer than "+d.String())
//	}))
func WithHandler(handler func(c *router.Context, timeout time.Duration)) Option {
	return func(cfg *config) {
		if handler != nil {
			cfg.handler = handler
		}
	}
}

// WithSkipPaths exempts exact paths from the timeout, for streaming or
// long-poll endpoints.
func WithSkipPaths(paths ...string) Option {
	return func(cfg *config) {
		for _, path := range paths {
			cfg.skipPaths[path] = true
		}
	}
}

// WithSkipPrefix exempts paths starting with any of the given prefixes.
func WithSkipPrefix(prefixes ...string) Option {
	return func(cfg *config) {
		cfg.skipPrefixes = append(cfg.skipPrefixes, prefixes...)
	}
}

// WithSkip sets a predicate for exempting requests from the timeout.
func WithSkip(fn func(c *router.Context) bool) Option {
	return func(cfg *config) {
		cfg.skipFunc = fn
	}
}
