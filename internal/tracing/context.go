// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// Package tracing provides span helpers for OTP operations
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "github.com/undernetirc/otpgen/internal/errors"
)

// TracedContext wraps a context and span to provide convenient tracing methods
type TracedContext struct {
	context.Context
	span trace.Span
}

// NewTracedContext creates a new TracedContext from a context.
// If the context doesn't have a span, it uses a no-op span
func NewTracedContext(ctx context.Context) *TracedContext {
	return &TracedContext{
		Context: ctx,
		span:    trace.SpanFromContext(ctx),
	}
}

// Span returns the underlying span
func (tc *TracedContext) Span() trace.Span {
	return tc.span
}

func (tc *TracedContext) recording() bool {
	return tc.span != nil && tc.span.IsRecording()
}

// AddAttr adds a single attribute to the span
func (tc *TracedContext) AddAttr(key string, value interface{}) {
	if !tc.recording() {
		return
	}
	tc.span.SetAttributes(convertToAttribute(key, value))
}

// AddAttrs adds multiple attributes to the span at once
func (tc *TracedContext) AddAttrs(attrs map[string]interface{}) {
	if !tc.recording() {
		return
	}

	converted := make([]attribute.KeyValue, 0, len(attrs))
	for key, value := range attrs {
		converted = append(converted, convertToAttribute(key, value))
	}
	tc.span.SetAttributes(converted...)
}

// RecordError records err on the span together with its error code
func (tc *TracedContext) RecordError(err error) {
	if !tc.recording() || err == nil {
		return
	}

	tc.span.RecordError(err)
	tc.span.SetStatus(codes.Error, err.Error())
	tc.span.SetAttributes(
		attribute.String("error.code", apierrors.OTPErrorCode(err)),
		attribute.String("error.type", fmt.Sprintf("%T", err)),
	)
}

// MarkSuccess marks the current operation as successful
func (tc *TracedContext) MarkSuccess() {
	if tc.recording() {
		tc.span.SetStatus(codes.Ok, "")
		tc.span.SetAttributes(attribute.Bool("operation.success", true))
	}
}

// AddEvent adds an event to the span
func (tc *TracedContext) AddEvent(name string, attrs ...attribute.KeyValue) {
	if tc.recording() {
		tc.span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

// convertToAttribute converts a Go value to an OpenTelemetry attribute
func convertToAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case uint8:
		return attribute.Int(key, int(v))
	case uint64:
		// counters above MaxInt64 are kept exact as strings
		if v > 1<<63-1 {
			return attribute.String(key, fmt.Sprintf("%d", v))
		}
		return attribute.Int64(key, int64(v))
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
