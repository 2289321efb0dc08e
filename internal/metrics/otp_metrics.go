// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// Package metrics provides OTP-specific metrics collection
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/undernetirc/otpgen/internal/auth/oath"
	"github.com/undernetirc/otpgen/internal/auth/oath/base32"
	"github.com/undernetirc/otpgen/internal/auth/oath/totp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTPMetrics holds all OTP-related metric instruments
type OTPMetrics struct {
	generated          metric.Int64Counter
	generationFailures metric.Int64Counter
	generationDuration metric.Float64Histogram
	verifications      metric.Int64Counter
}

// OTPMetricsConfig holds configuration for OTP metrics
type OTPMetricsConfig struct {
	Meter metric.Meter
}

// NewOTPMetrics creates a new OTP metrics collector
func NewOTPMetrics(config OTPMetricsConfig) (*OTPMetrics, error) {
	if config.Meter == nil {
		return nil, fmt.Errorf("meter cannot be nil")
	}

	metrics := &OTPMetrics{}

	var err error
	metrics.generated, err = config.Meter.Int64Counter(
		"otp_generated_total",
		metric.WithDescription("Total number of generated one-time passwords"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generated counter: %w", err)
	}

	metrics.generationFailures, err = config.Meter.Int64Counter(
		"otp_generation_failures_total",
		metric.WithDescription("Total number of rejected generation requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation failures counter: %w", err)
	}

	metrics.generationDuration, err = config.Meter.Float64Histogram(
		"otp_generation_duration_ms",
		metric.WithDescription("OTP generation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation duration histogram: %w", err)
	}

	metrics.verifications, err = config.Meter.Int64Counter(
		"otp_verifications_total",
		metric.WithDescription("Total number of TOTP verification checks"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create verifications counter: %w", err)
	}

	return metrics, nil
}

// RecordGeneration records a generation attempt. kind is "hotp" or "totp".
func (m *OTPMetrics) RecordGeneration(ctx context.Context, kind string, algorithm oath.Algorithm, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("type", kind),
		attribute.String("algorithm", algorithm.String()),
		attribute.String("result", getResultString(err == nil)),
	}

	durationMs := float64(duration.Nanoseconds()) / 1e6
	m.generationDuration.Record(ctx, durationMs, metric.WithAttributes(attrs...))

	if err == nil {
		m.generated.Add(ctx, 1, metric.WithAttributes(attrs...))
		return
	}

	attrs = append(attrs, attribute.String("failure_reason", FailureReason(err)))
	m.generationFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordVerification records the outcome of a TOTP verification
func (m *OTPMetrics) RecordVerification(ctx context.Context, algorithm oath.Algorithm, valid bool) {
	if m == nil {
		return
	}

	m.verifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("algorithm", algorithm.String()),
		attribute.String("result", getResultString(valid)),
	))
}

// RecordVerificationFailure records a verification request that was rejected before
// the code could be checked
func (m *OTPMetrics) RecordVerificationFailure(ctx context.Context, algorithm oath.Algorithm, err error) {
	if m == nil {
		return
	}

	m.verifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("algorithm", algorithm.String()),
		attribute.String("result", "error"),
		attribute.String("failure_reason", FailureReason(err)),
	))
}

// FailureReason maps a core error to a low-cardinality label
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, oath.ErrInvalidKey):
		return "invalid_key"
	case errors.Is(err, base32.ErrInvalidEncoding):
		return "invalid_encoding"
	case errors.Is(err, oath.ErrUnsupportedAlgorithm):
		return "unsupported_algorithm"
	case errors.Is(err, oath.ErrInvalidDigits):
		return "invalid_digits"
	case errors.Is(err, totp.ErrInvalidTimePeriod):
		return "invalid_time_period"
	case errors.Is(err, oath.ErrNotConfigured):
		return "not_configured"
	default:
		return "other"
	}
}

func getResultString(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
