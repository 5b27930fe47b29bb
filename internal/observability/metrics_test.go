package observability

import (
	"testing"
	"time"
)

func TestEnsureRegisteredIdempotent(t *testing.T) {
	// A second registration of the same collectors would panic
	EnsureRegistered()
	EnsureRegistered()
}

func TestRecordHelpers(t *testing.T) {
	RecordEnqueue("test", 1)
	RecordDuplicate("test")
	RecordCompletion("test", 5*time.Millisecond, 0)
	RecordClear("test")
	SetQueueSize("test", 0)
}

func TestMetricsHandler(t *testing.T) {
	if MetricsHandler() == nil {
		t.Error("MetricsHandler returned nil")
	}
}
