// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package middlewares

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/undernetirc/otpgen/internal/helper"
	"go.opentelemetry.io/otel/trace"
)

const loggerKey = "logger"

// LogCorrelation returns a middleware that stores a request scoped logger carrying the
// request and trace IDs and logs each completed request
func LogCorrelation(baseLogger *slog.Logger) echo.MiddlewareFunc {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger := createTraceAwareLogger(c, baseLogger)
			c.Set(loggerKey, logger)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logRequestCompletion(c, logger, err)
			return nil
		}
	}
}

// GetLoggerFromContext retrieves the request logger, falling back to the default logger
func GetLoggerFromContext(c echo.Context) *slog.Logger {
	if logger, ok := c.Get(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return createTraceAwareLogger(c, slog.Default())
}

func createTraceAwareLogger(c echo.Context, logger *slog.Logger) *slog.Logger {
	logger = logger.With("requestID", helper.GetRequestID(c))

	span := trace.SpanFromContext(c.Request().Context())
	if span.SpanContext().IsValid() {
		logger = logger.With(
			"traceID", span.SpanContext().TraceID().String(),
			"spanID", span.SpanContext().SpanID().String(),
		)
	}

	return logger
}

func logRequestCompletion(c echo.Context, logger *slog.Logger, err error) {
	res := c.Response()
	attrs := []any{
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"status", res.Status,
		"size", res.Size,
	}

	switch {
	case err != nil && res.Status >= 500:
		logger.Error("Request failed", append(attrs, "error", err)...)
	case res.Status >= 400:
		logger.Warn("Request rejected", attrs...)
	default:
		logger.Info("Request completed", attrs...)
	}
}
