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
	"context"
	"fmt"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "strada.dev/router/metrics"

func (r *Recorder) initProvider() error {
	switch r.provider {
	case PrometheusProvider:
		return r.initPrometheus()
	case OTLPProvider:
		return r.initOTLP()
	case StdoutProvider:
		return r.initStdout()
	default:
		return fmt.Errorf("unsupported provider %q", r.provider)
	}
}

// initPrometheus wires a private registry so two recorders in one process
// never fight over metric registration.
func (r *Recorder) initPrometheus() error {
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(r.prometheusRegistry),
	)
	if err != nil {
		return fmt.Errorf("creating Prometheus exporter: %w", err)
	}

	r.sdkProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	r.meterProvider = r.sdkProvider
	r.prometheusHandler = promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})
	r.meter = r.meterProvider.Meter(meterName)
	return r.initInstruments()
}

func (r *Recorder) initOTLP() error {
	endpoint := r.otlpEndpoint
	if endpoint == "" {
		endpoint = "http://localhost:4318"
	}

	insecure := strings.HasPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	if idx := strings.Index(endpoint, "/"); idx != -1 {
		endpoint = endpoint[:idx]
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("creating OTLP exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))
	r.sdkProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r.meterProvider = r.sdkProvider
	r.meter = r.meterProvider.Meter(meterName)
	return r.initInstruments()
}

func (r *Recorder) initStdout() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("creating stdout exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))
	r.sdkProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r.meterProvider = r.sdkProvider
	r.meter = r.meterProvider.Meter(meterName)
	return r.initInstruments()
}

// Shutdown flushes pending exports and releases the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.sdkProvider == nil {
		return nil
	}
	if err := r.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down meter provider: %w", err)
	}
	return nil
}
