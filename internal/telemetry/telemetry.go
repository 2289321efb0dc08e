// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

// Package telemetry provides OpenTelemetry initialization and management
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Provider manages OpenTelemetry providers and their lifecycle
type Provider struct {
	traceProvider  *sdktrace.TracerProvider
	metricProvider *sdkmetric.MeterProvider
	registry       *prometheus.Registry
	resource       *resource.Resource
	config         *Config
}

// Config holds the telemetry configuration
type Config struct {
	Enabled            bool
	ServiceName        string
	ServiceVersion     string
	OTLPEndpoint       string
	OTLPInsecure       bool
	PrometheusEnabled  bool
	PrometheusEndpoint string
	TracingEnabled     bool
	TracingSampleRate  float64
	MetricsEnabled     bool
}

// NewProvider creates a new telemetry provider with the given configuration
func NewProvider(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		return nil, errors.New("telemetry config cannot be nil")
	}

	provider := &Provider{
		config: config,
	}

	if !config.Enabled {
		return provider, nil
	}

	res, err := provider.createResource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	provider.resource = res

	// Initialize trace provider if tracing is enabled
	if config.TracingEnabled {
		tp, err := provider.createTraceProvider(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace provider: %w", err)
		}
		provider.traceProvider = tp
		otel.SetTracerProvider(tp)
	}

	// Initialize metric provider if metrics are enabled
	if config.MetricsEnabled {
		mp, err := provider.createMetricProvider(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric provider: %w", err)
		}
		provider.metricProvider = mp
		otel.SetMeterProvider(mp)
	}

	return provider, nil
}

// Shutdown gracefully shuts down all telemetry providers
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.IsEnabled() {
		return nil
	}

	var errs []error

	if p.traceProvider != nil {
		if err := p.traceProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown trace provider: %w", err))
		}
	}

	if p.metricProvider != nil {
		if err := p.metricProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown metric provider: %w", err))
		}
	}

	return errors.Join(errs...)
}

// GetTracer returns a tracer for the given name
func (p *Provider) GetTracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if p.traceProvider == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return p.traceProvider.Tracer(name, opts...)
}

// GetMeter returns a meter for the given name
func (p *Provider) GetMeter(name string, opts ...metric.MeterOption) metric.Meter {
	if p.metricProvider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return p.metricProvider.Meter(name, opts...)
}

// IsEnabled returns whether telemetry is enabled
func (p *Provider) IsEnabled() bool {
	return p.config != nil && p.config.Enabled
}

// TracingEnabled reports whether a trace provider is installed
func (p *Provider) TracingEnabled() bool {
	return p.traceProvider != nil
}

// MetricsHandler returns the Prometheus scrape handler, or nil when the
// Prometheus exporter is not running
func (p *Provider) MetricsHandler() http.Handler {
	if p.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Timeout:           5 * time.Second,
	})
}

// MetricsEndpoint returns the route metrics are served on
func (p *Provider) MetricsEndpoint() string {
	if p.config == nil || p.config.PrometheusEndpoint == "" {
		return "/metrics"
	}
	return p.config.PrometheusEndpoint
}

// createTraceProvider creates and configures the trace provider
func (p *Provider) createTraceProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	factory := NewExporterFactory(p.config)

	exporter, err := factory.CreateTraceExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// Use batch processor for better performance
	processor := sdktrace.NewBatchSpanProcessor(
		exporter,
		sdktrace.WithBatchTimeout(5*time.Second),
		sdktrace.WithMaxExportBatchSize(512),
		sdktrace.WithMaxQueueSize(2048),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(p.resource),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(p.config.TracingSampleRate))),
		sdktrace.WithSpanProcessor(processor),
	), nil
}

// createMetricProvider creates and configures the metric provider
func (p *Provider) createMetricProvider(_ context.Context) (*sdkmetric.MeterProvider, error) {
	opts := []sdkmetric.Option{
		sdkmetric.WithResource(p.resource),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "otp_generation_duration_ms"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
				},
			},
		)),
	}

	if p.config.PrometheusEnabled {
		p.registry = prometheus.NewRegistry()
		reader, err := NewExporterFactory(p.config).CreatePrometheusReader(p.registry)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus reader: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	return sdkmetric.NewMeterProvider(opts...), nil
}
