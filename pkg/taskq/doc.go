// Package taskq provides a strictly sequential in-memory task queue with
// duplicate suppression and continuation-driven draining.
//
// Invariants:
// - Tasks drain in FIFO order; at most one task is in flight at a time.
// - A task whose index key matches an already-queued key is suppressed.
// - The queue advances only when the in-flight task calls its continuation.
// - Queue activity is observable through events, logs, and metrics.
//
// Usage:
//
//	q := taskq.NewRecordQueue(func(task taskq.Record, done taskq.DoneFunc) {
//		handle(task)
//		done()
//	}, taskq.Config[taskq.Record]{Name: "emails"})
//	q.AddAll([]taskq.Record{{"id": 1}, {"id": 2}, {"id": 1}}, true)
package taskq
