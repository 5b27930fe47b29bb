package tracing

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// TraceIDKey is the context key for trace ID
	TraceIDKey ContextKey = "trace_id"
	// QueueNameKey is the context key for the queue name
	QueueNameKey ContextKey = "queue_name"
	// TaskKeyKey is the context key for the task's index key
	TaskKeyKey ContextKey = "task_key"
)

// TraceContext holds tracing information
type TraceContext struct {
	TraceID   string
	QueueName string
	TaskKey   string
}

// NewTraceID generates a new trace ID
func NewTraceID() string {
	return uuid.New().String()
}

// WithTraceID adds a trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// WithQueueName adds a queue name to the context
func WithQueueName(ctx context.Context, queueName string) context.Context {
	return context.WithValue(ctx, QueueNameKey, queueName)
}

// WithTaskKey adds a task index key to the context
func WithTaskKey(ctx context.Context, taskKey string) context.Context {
	return context.WithValue(ctx, TaskKeyKey, taskKey)
}

// GetTraceID retrieves the trace ID from the context
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// GetQueueName retrieves the queue name from the context
func GetQueueName(ctx context.Context) string {
	if queueName, ok := ctx.Value(QueueNameKey).(string); ok {
		return queueName
	}
	return ""
}

// GetTaskKey retrieves the task index key from the context
func GetTaskKey(ctx context.Context) string {
	if taskKey, ok := ctx.Value(TaskKeyKey).(string); ok {
		return taskKey
	}
	return ""
}

// FromContext extracts all tracing information from the context
func FromContext(ctx context.Context) *TraceContext {
	return &TraceContext{
		TraceID:   GetTraceID(ctx),
		QueueName: GetQueueName(ctx),
		TaskKey:   GetTaskKey(ctx),
	}
}

// NewContext creates a new context with tracing information
func NewContext(ctx context.Context, tc *TraceContext) context.Context {
	if tc.TraceID != "" {
		ctx = WithTraceID(ctx, tc.TraceID)
	}
	if tc.QueueName != "" {
		ctx = WithQueueName(ctx, tc.QueueName)
	}
	if tc.TaskKey != "" {
		ctx = WithTaskKey(ctx, tc.TaskKey)
	}
	return ctx
}
