// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package middlewares

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HTTPTracing returns a middleware that starts a server span per request and tags it
// with the request ID
func HTTPTracing(tracerProvider trace.TracerProvider, serviceName string) echo.MiddlewareFunc {
	if tracerProvider == nil {
		tracerProvider = otel.GetTracerProvider()
	}

	base := otelecho.Middleware(
		serviceName,
		otelecho.WithTracerProvider(tracerProvider),
		otelecho.WithPropagators(otel.GetTextMapPropagator()),
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return base(func(c echo.Context) error {
			span := trace.SpanFromContext(c.Request().Context())
			if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
				span.SetAttributes(attribute.String("http.request_id", requestID))
			}
			return next(c)
		})
	}
}
