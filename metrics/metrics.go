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

// Package metrics provides an OpenTelemetry-backed observability recorder
// for the router. It records request duration, counts, in-flight requests,
// and response sizes per route pattern, and can export them through
// Prometheus, OTLP over HTTP, or stdout.
//
// Basic usage with Prometheus:
//
//	rec, err := metrics.New(metrics.WithServiceName("users-api"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rec.Shutdown(context.Background())
//
//	r := router.MustNew(router.WithObservability(rec))
//	http.Handle("/metrics", rec.Handler())
package metrics

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultDurationBuckets are histogram boundaries for request duration in
// seconds, covering sub-millisecond to ten-second responses.
var DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// DefaultSizeBuckets are histogram boundaries for response size in bytes.
var DefaultSizeBuckets = []float64{100, 1000, 10000, 100000, 1000000, 10000000}

// Provider selects the metrics export backend.
type Provider string

const (
	// PrometheusProvider exports through a pull-based Prometheus registry
	// (default). Scrape the handler returned by [Recorder.Handler].
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics to an OTLP HTTP collector.
	OTLPProvider Provider = "otlp"
	// StdoutProvider prints metrics to stdout, for development.
	StdoutProvider Provider = "stdout"
)

// Recorder implements router.ObservabilityRecorder on top of
// OpenTelemetry instruments. All methods are safe for concurrent use.
//
// The recorder never touches the global OpenTelemetry meter provider, so
// multiple recorders can coexist in one process.
type Recorder struct {
	meterProvider      metric.MeterProvider
	sdkProvider        *sdkmetric.MeterProvider
	meter              metric.Meter
	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler

	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	responseSize    metric.Int64Histogram
	errorCount      metric.Int64Counter

	serviceNameAttr    attribute.KeyValue
	serviceVersionAttr attribute.KeyValue

	logger          *slog.Logger
	provider        Provider
	serviceName     string
	serviceVersion  string
	otlpEndpoint    string
	exportInterval  time.Duration
	durationBuckets []float64
	sizeBuckets     []float64
}

// New creates a Recorder with the given options. The default backend is
// Prometheus with a private registry.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:        PrometheusProvider,
		serviceName:     "strada-service",
		serviceVersion:  "1.0.0",
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
		sizeBuckets:     DefaultSizeBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid metrics configuration: %w", err)
	}

	r.serviceNameAttr = attribute.String("service.name", r.serviceName)
	r.serviceVersionAttr = attribute.String("service.version", r.serviceVersion)

	if err := r.initProvider(); err != nil {
		return nil, fmt.Errorf("initializing metrics provider: %w", err)
	}
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics: %v", err))
	}
	return r
}

func (r *Recorder) validate() error {
	if r.serviceName == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if r.serviceVersion == "" {
		return fmt.Errorf("service version cannot be empty")
	}
	switch r.provider {
	case PrometheusProvider, OTLPProvider, StdoutProvider:
	default:
		return fmt.Errorf("unsupported provider %q", r.provider)
	}
	if r.provider == OTLPProvider && r.exportInterval < time.Second {
		return fmt.Errorf("export interval %s is below one second", r.exportInterval)
	}
	return nil
}

// initInstruments creates the HTTP instruments on the configured meter.
func (r *Recorder) initInstruments() error {
	var err error

	r.requestDuration, err = r.meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("creating duration histogram: %w", err)
	}

	r.requestCount, err = r.meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total HTTP requests processed"),
	)
	if err != nil {
		return fmt.Errorf("creating request counter: %w", err)
	}

	r.activeRequests, err = r.meter.Int64UpDownCounter(
		"http_requests_in_flight",
		metric.WithDescription("HTTP requests currently being served"),
	)
	if err != nil {
		return fmt.Errorf("creating in-flight counter: %w", err)
	}

	r.responseSize, err = r.meter.Int64Histogram(
		"http_response_size_bytes",
		metric.WithDescription("HTTP response body size in bytes"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	)
	if err != nil {
		return fmt.Errorf("creating response size histogram: %w", err)
	}

	r.errorCount, err = r.meter.Int64Counter(
		"http_request_errors_total",
		metric.WithDescription("Total HTTP responses with 5xx status"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}

// Handler returns the Prometheus scrape handler. It returns a 404 handler
// when the recorder uses a non-Prometheus backend.
func (r *Recorder) Handler() http.Handler {
	if r.prometheusHandler != nil {
		return r.prometheusHandler
	}
	return http.NotFoundHandler()
}

// MeterProvider exposes the underlying meter provider for callers that
// want to create their own instruments alongside the built-in ones.
func (r *Recorder) MeterProvider() metric.MeterProvider {
	return r.meterProvider
}
