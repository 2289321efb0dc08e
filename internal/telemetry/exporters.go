// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package telemetry

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ExporterFactory creates exporters based on configuration
type ExporterFactory struct {
	config *Config
}

// NewExporterFactory creates a new exporter factory
func NewExporterFactory(config *Config) *ExporterFactory {
	return &ExporterFactory{config: config}
}

// CreateTraceExporter creates the OTLP/HTTP trace exporter
func (f *ExporterFactory) CreateTraceExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	if f.config.OTLPEndpoint == "" {
		return nil, fmt.Errorf("no trace exporters configured")
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(f.config.OTLPEndpoint),
	}

	if f.config.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	} else {
		opts = append(opts, otlptracehttp.WithTLSClientConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
		}))
	}

	return otlptracehttp.New(ctx, opts...)
}

// CreatePrometheusReader creates a Prometheus metric reader registered on registry
func (f *ExporterFactory) CreatePrometheusReader(registry prometheus.Registerer) (metric.Reader, error) {
	return otelprom.New(otelprom.WithRegisterer(registry))
}

// ValidateExporterConfig validates the exporter configuration
func ValidateExporterConfig(config *Config) error {
	if !config.Enabled {
		return nil
	}

	if config.TracingEnabled && config.OTLPEndpoint == "" {
		return fmt.Errorf("tracing is enabled but no OTLP endpoint is configured")
	}

	if config.OTLPEndpoint == "localhost" || config.OTLPEndpoint == "127.0.0.1" {
		return fmt.Errorf("OTLP endpoint must include a port")
	}

	if config.TracingSampleRate < 0.0 || config.TracingSampleRate > 1.0 {
		return fmt.Errorf("tracing sample rate must be between 0.0 and 1.0, got %f", config.TracingSampleRate)
	}

	return nil
}
