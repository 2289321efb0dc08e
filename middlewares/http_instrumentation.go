// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package middlewares

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPInstrumentationConfig holds configuration for HTTP instrumentation middleware
type HTTPInstrumentationConfig struct {
	// Skipper defines a function to skip middleware
	Skipper func(echo.Context) bool
	// Meter is the OpenTelemetry meter for creating instruments
	Meter metric.Meter
}

type httpInstruments struct {
	requestDuration metric.Float64Histogram
	requestCounter  metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// HTTPInstrumentation returns a middleware that records request count, duration and
// in-flight requests per route
func HTTPInstrumentation(meter metric.Meter) echo.MiddlewareFunc {
	return HTTPInstrumentationWithConfig(HTTPInstrumentationConfig{Meter: meter})
}

// HTTPInstrumentationWithConfig returns a middleware with custom configuration
func HTTPInstrumentationWithConfig(config HTTPInstrumentationConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = func(echo.Context) bool { return false }
	}

	instruments, err := createHTTPInstruments(config.Meter)
	if err != nil {
		// no meter, no metrics
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			ctx := c.Request().Context()
			start := time.Now()

			route := c.Path()
			if route == "" {
				route = "unknown"
			}
			base := metric.WithAttributes(
				attribute.String("method", c.Request().Method),
				attribute.String("route", route),
			)

			instruments.activeRequests.Add(ctx, 1, base)
			defer instruments.activeRequests.Add(ctx, -1, base)

			err := next(c)
			if err != nil {
				// let the error handler write the status before it is recorded
				c.Error(err)
			}

			status := c.Response().Status
			attrs := metric.WithAttributes(
				attribute.String("method", c.Request().Method),
				attribute.String("route", route),
				attribute.String("status", strconv.Itoa(status)),
				attribute.String("status_class", getStatusClass(status)),
			)

			durationMs := float64(time.Since(start).Nanoseconds()) / 1e6
			instruments.requestDuration.Record(ctx, durationMs, attrs)
			instruments.requestCounter.Add(ctx, 1, attrs)

			return nil
		}
	}
}

func createHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	if meter == nil {
		return nil, fmt.Errorf("meter cannot be nil")
	}

	requestDuration, err := meter.Float64Histogram(
		"http_request_duration_ms",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	requestCounter, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &httpInstruments{
		requestDuration: requestDuration,
		requestCounter:  requestCounter,
		activeRequests:  activeRequests,
	}, nil
}

// getStatusClass returns the status class (1xx, 2xx, 3xx, 4xx, 5xx) for a given status code
func getStatusClass(status int) string {
	switch {
	case status >= 100 && status < 600:
		return strconv.Itoa(status/100) + "xx"
	default:
		return "unknown"
	}
}
