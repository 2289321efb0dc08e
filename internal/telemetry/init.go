// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultShutdownTimeout is the default timeout for telemetry shutdown
const DefaultShutdownTimeout = 10 * time.Second

// Initialize sets up OpenTelemetry from the viper configuration
func Initialize(ctx context.Context, logger *slog.Logger) (*Provider, error) {
	cfg, err := LoadConfigFromViper()
	if err != nil {
		return nil, fmt.Errorf("failed to load telemetry configuration: %w", err)
	}

	if cfg.Enabled {
		logger.Info("Initializing OpenTelemetry",
			"service", cfg.ServiceName,
			"version", cfg.ServiceVersion,
			"tracing", cfg.TracingEnabled,
			"metrics", cfg.MetricsEnabled,
			"prometheus", cfg.PrometheusEnabled,
			"sampleRate", cfg.TracingSampleRate)
	} else {
		logger.Info("OpenTelemetry is disabled")
	}

	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry provider: %w", err)
	}

	return provider, nil
}

// Shutdown gracefully shuts down the telemetry provider with a timeout
func Shutdown(provider *Provider, logger *slog.Logger) error {
	if provider == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	if err := provider.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown telemetry", "error", err)
		return err
	}

	logger.Debug("OpenTelemetry shutdown completed")
	return nil
}
