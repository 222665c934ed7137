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
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ServerTimeouts configures the timeouts of the http.Server created by
// Serve and ServeTLS. Zero disables a timeout.
type ServerTimeouts struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

func defaultServerTimeouts() ServerTimeouts {
	return ServerTimeouts{
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Serve starts an HTTP server on addr with sane default timeouts. When
// the router was built WithH2C, the handler additionally accepts HTTP/2
// over cleartext.
//
// Example:
//
//	r := router.MustNew(router.WithLogger(slog.Default()))
//	r.GET("/healthz", func(c *router.Context) { c.Status(http.StatusOK) })
//	if err := r.Serve(":8080"); err != nil {
//	    log.Fatal(err)
//	}
func (r *Router) Serve(addr string) error {
	var handler http.Handler = r
	if r.enableH2C {
		handler = h2c.NewHandler(r, &http2.Server{})
	}

	server := r.newServer(addr, handler)
	r.logStartup(addr, "http")
	return server.ListenAndServe()
}

// ServeTLS starts an HTTPS server on addr using the given certificate and
// key files. HTTP/2 is negotiated via ALPN by net/http.
func (r *Router) ServeTLS(addr, certFile, keyFile string) error {
	server := r.newServer(addr, r)
	r.logStartup(addr, "https")
	return server.ListenAndServeTLS(certFile, keyFile)
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: r.serverTimeouts.ReadHeaderTimeout,
		ReadTimeout:       r.serverTimeouts.ReadTimeout,
		WriteTimeout:      r.serverTimeouts.WriteTimeout,
		IdleTimeout:       r.serverTimeouts.IdleTimeout,
	}
}

func (r *Router) logStartup(addr, scheme string) {
	r.mu.RLock()
	routeCount := len(r.routes)
	r.mu.RUnlock()
	r.logger.Info("server starting",
		"addr", addr,
		"scheme", scheme,
		"routes", routeCount,
		"h2c", r.enableH2C,
	)
}
