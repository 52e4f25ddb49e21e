package logging

import (
	"context"
	"regexp"
	"strconv"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// W3C Trace Context format: {version}-{trace-id}-{parent-id}-{trace-flags}
// Example: 00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-01
var traceHeaderRe = regexp.MustCompile(`^([0-9a-f]{2})-([0-9a-f]{32})-([0-9a-f]{16})-([0-9a-f]{2})$`)

// spanContext prefers the span active in ctx, which exists whenever tracing
// middleware ran, and otherwise reads the caller's traceparent header.
func spanContext(ctx context.Context, header string) trace.SpanContext {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc
	}
	return parseTraceparent(header)
}

func parseTraceparent(header string) trace.SpanContext {
	m := traceHeaderRe.FindStringSubmatch(header)
	if len(m) != 5 {
		return trace.SpanContext{}
	}
	traceID, err := trace.TraceIDFromHex(m[2])
	if err != nil {
		return trace.SpanContext{}
	}
	spanID, err := trace.SpanIDFromHex(m[3])
	if err != nil {
		return trace.SpanContext{}
	}
	flags, err := strconv.ParseUint(m[4], 16, 8)
	if err != nil {
		return trace.SpanContext{}
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.TraceFlags(flags),
		Remote:     true,
	})
}

// traceFields lets the frontend and backend entries of one call chain share a traceId.
func traceFields(sc trace.SpanContext) []zap.Field {
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("traceId", sc.TraceID().String()),
		zap.String("spanId", sc.SpanID().String()),
		zap.Bool("traceSampled", sc.IsSampled()),
	}
}

func loggerWithTrace(base *zap.Logger, sc trace.SpanContext, requestID string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	fields := traceFields(sc)
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
