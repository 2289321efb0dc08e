// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of OTP spans
const TracerName = "github.com/undernetirc/otpgen"

// Trace runs fn inside an internal span called name. The span records the error
// returned by fn, or success, and the duration of fn.
func Trace(ctx context.Context, name string, attrs map[string]interface{}, fn func(*TracedContext) error) error {
	ctx, span := otel.Tracer(TracerName).Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	tc := &TracedContext{Context: ctx, span: span}
	tc.AddAttrs(attrs)

	start := time.Now()
	err := fn(tc)
	span.SetAttributes(attribute.Int64("operation.duration_us", time.Since(start).Microseconds()))

	if err != nil {
		tc.RecordError(err)
		return err
	}
	tc.MarkSuccess()
	return nil
}
