package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestPropagateToLogger(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "trace-123")
	ctx = WithQueueName(ctx, "emails")

	var buf bytes.Buffer
	baseLogger := zerolog.New(&buf)

	logger := PropagateToLogger(ctx, baseLogger)
	logger.Info().Msg("test")

	output := buf.String()
	if !strings.Contains(output, "trace-123") {
		t.Error("Trace ID not in log output")
	}
	if !strings.Contains(output, "emails") {
		t.Error("Queue name not in log output")
	}
}

func TestLoggerFromContext(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "trace-xyz")

	var buf bytes.Buffer
	baseLogger := zerolog.New(&buf)

	logger := LoggerFromContext(ctx, baseLogger)
	logger.Info().Msg("test")

	if !strings.Contains(buf.String(), "trace-xyz") {
		t.Error("Trace ID not in log output")
	}
}

func TestMergeContext(t *testing.T) {
	sourceCtx := context.Background()
	sourceCtx = WithTraceID(sourceCtx, "trace-source")
	sourceCtx = WithTaskKey(sourceCtx, "key-source")

	targetCtx := context.Background()
	targetCtx = WithTraceID(targetCtx, "trace-target")

	merged := MergeContext(targetCtx, sourceCtx)

	// Existing values win, missing values are filled from source
	if GetTraceID(merged) != "trace-target" {
		t.Errorf("Expected trace-target, got %s", GetTraceID(merged))
	}
	if GetTaskKey(merged) != "key-source" {
		t.Errorf("Expected key-source, got %s", GetTaskKey(merged))
	}
}

func TestInitOpenTelemetry(t *testing.T) {
	if err := InitOpenTelemetry("taskq-test"); err != nil {
		t.Fatalf("InitOpenTelemetry failed: %v", err)
	}

	// Second call is a no-op and must not error
	if err := InitOpenTelemetry("taskq-test"); err != nil {
		t.Fatalf("InitOpenTelemetry second call failed: %v", err)
	}

	ctx, span := StartSpan(context.Background(), "taskq", "test.span")
	span.End()

	if GetTraceID(ctx) == "" {
		t.Error("StartSpan did not propagate a trace ID")
	}

	if err := ShutdownOpenTelemetry(context.Background()); err != nil {
		t.Fatalf("ShutdownOpenTelemetry failed: %v", err)
	}
}
