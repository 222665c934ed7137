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

package metrics

import (
	"log/slog"
	"time"
)

// Option configures a Recorder during construction.
type Option func(*Recorder)

// WithServiceName sets the service.name attribute attached to every
// metric. Default: "strada-service".
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service.version attribute attached to every
// metric. Default: "1.0.0".
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithPrometheus selects the Prometheus backend (the default). Metrics are
// registered on a private registry served by [Recorder.Handler].
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
	}
}

// WithOTLP selects the OTLP HTTP backend pushing to the given collector
// endpoint, e.g. "http://localhost:4318". An "http://" scheme selects
// insecure transport.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
	}
}

// WithStdout selects the stdout backend, printing metrics at the export
// interval. Intended for development.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
	}
}

// WithExportInterval sets how often push-based backends (OTLP, stdout)
// export. Default: 30 seconds. Ignored by Prometheus, which is pull-based.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithDurationBuckets overrides the request duration histogram boundaries,
// in seconds.
func WithDurationBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.durationBuckets = buckets
		}
	}
}

// WithSizeBuckets overrides the response size histogram boundaries, in
// bytes.
func WithSizeBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.sizeBuckets = buckets
		}
	}
}

// WithLogger sets a logger for recorder diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}
