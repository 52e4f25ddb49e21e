package logging

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testTraceID = "3d23d071b5bfd6579171efce907685cb"
	testSpanID  = "08f067aa0ba902b7"
)

func TestParseTraceparent(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		sampled bool
	}{
		{"sampled", "00-" + testTraceID + "-" + testSpanID + "-01", true},
		{"not sampled", "00-" + testTraceID + "-" + testSpanID + "-00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := parseTraceparent(tt.header)
			if !sc.IsValid() {
				t.Fatalf("expected valid span context for %q", tt.header)
			}
			if sc.TraceID().String() != testTraceID || sc.SpanID().String() != testSpanID {
				t.Fatalf("unexpected ids: %s %s", sc.TraceID(), sc.SpanID())
			}
			if sc.IsSampled() != tt.sampled {
				t.Fatalf("expected sampled %v", tt.sampled)
			}
			if !sc.IsRemote() {
				t.Fatal("expected remote span context")
			}
		})
	}
}

func TestParseTraceparentInvalid(t *testing.T) {
	for _, header := range []string{
		"",
		"invalid",
		"00-short-08f067aa0ba902b7-01",
		"00-00000000000000000000000000000000-" + testSpanID + "-01",
		"00-" + testTraceID + "-0000000000000000-01",
	} {
		if sc := parseTraceparent(header); sc.IsValid() {
			t.Fatalf("expected invalid span context for %q", header)
		}
	}
}

func TestTraceFields(t *testing.T) {
	fields := traceFields(parseTraceparent("00-" + testTraceID + "-" + testSpanID + "-01"))
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].Key != "traceId" || fields[0].String != testTraceID {
		t.Fatalf("unexpected trace field: %+v", fields[0])
	}
	if fields[1].Key != "spanId" || fields[1].String != testSpanID {
		t.Fatalf("unexpected span field: %+v", fields[1])
	}
	if fields[2].Key != "traceSampled" || fields[2].Type != zapcore.BoolType || fields[2].Integer != 1 {
		t.Fatalf("unexpected sampled field: %+v", fields[2])
	}
	if fields := traceFields(trace.SpanContext{}); fields != nil {
		t.Fatalf("expected no fields for empty span context, got %v", fields)
	}
}

func TestSpanContextPrefersActiveSpan(t *testing.T) {
	active := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0a, 0x01},
		SpanID:     trace.SpanID{0x0b, 0x02},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), active)

	got := spanContext(ctx, "00-"+testTraceID+"-"+testSpanID+"-01")
	if !got.Equal(active) {
		t.Fatalf("expected active span context, got %v", got)
	}

	got = spanContext(context.Background(), "00-"+testTraceID+"-"+testSpanID+"-01")
	if got.TraceID().String() != testTraceID {
		t.Fatalf("expected header fallback, got %s", got.TraceID())
	}
}

func TestLoggerWithTraceAddsRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := loggerWithTrace(zap.New(core), trace.SpanContext{}, "req-123")
	logger.Info("hello")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["requestId"] != "req-123" {
		t.Fatalf("expected requestId field, got %v", fields)
	}
	if _, ok := fields["traceId"]; ok {
		t.Fatal("did not expect traceId without a span")
	}
}

func TestLoggerWithTraceNilBase(t *testing.T) {
	if logger := loggerWithTrace(nil, trace.SpanContext{}, ""); logger == nil {
		t.Fatal("expected nop logger for nil base")
	}
}
