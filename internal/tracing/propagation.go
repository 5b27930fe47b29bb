package tracing

import (
	"context"

	"github.com/rs/zerolog"
)

// PropagateToLogger adds tracing context to a zerolog logger
func PropagateToLogger(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	tc := FromContext(ctx)

	if tc.TraceID != "" {
		logger = logger.With().Str("trace_id", tc.TraceID).Logger()
	}
	if tc.QueueName != "" {
		logger = logger.With().Str("queue_name", tc.QueueName).Logger()
	}
	if tc.TaskKey != "" {
		logger = logger.With().Str("task_key", tc.TaskKey).Logger()
	}

	return logger
}

// LoggerFromContext creates a logger with tracing context from the given context
func LoggerFromContext(ctx context.Context, baseLogger zerolog.Logger) zerolog.Logger {
	return PropagateToLogger(ctx, baseLogger)
}

// MergeContext merges tracing information from source context into target context
// Useful when you need to combine contexts from different sources
func MergeContext(target, source context.Context) context.Context {
	tc := FromContext(source)

	if tc.TraceID != "" && GetTraceID(target) == "" {
		target = WithTraceID(target, tc.TraceID)
	}
	if tc.QueueName != "" && GetQueueName(target) == "" {
		target = WithQueueName(target, tc.QueueName)
	}
	if tc.TaskKey != "" && GetTaskKey(target) == "" {
		target = WithTaskKey(target, tc.TaskKey)
	}

	return target
}
