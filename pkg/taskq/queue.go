package taskq

import (
	"context"
	"sync"
	"time"

	"github.com/harun/taskq/internal/observability"
	"github.com/harun/taskq/internal/tracing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// DoneFunc signals that the processing function has finished its task.
type DoneFunc func()

// ProcessFunc handles a single task. It must call done exactly once,
// synchronously or asynchronously; the queue does not hand out the next task
// until then. A ProcessFunc that never calls done stalls the drain permanently.
type ProcessFunc[T any] func(task T, done DoneFunc)

// KeyFunc extracts the identity key used for duplicate suppression.
// Returning ok=false marks the task as keyless; keyless tasks are never
// deduplicated and never indexed.
type KeyFunc[T any] func(task T) (key string, ok bool)

// DuplicateFunc decides whether a keyed task should be suppressed. queued
// reports whether a key is currently indexed; the default policy is plain
// membership.
type DuplicateFunc[T any] func(task T, key string, queued func(string) bool) bool

// Config configures a Queue. The zero value is usable for queues of keyless
// tasks; supply a KeyFunc to enable duplicate suppression.
type Config[T any] struct {
	// Name labels the queue in logs, metrics, and events. Defaults to "default".
	Name string
	// KeyFunc extracts each task's index key. Nil means all tasks are keyless.
	KeyFunc KeyFunc[T]
	// IsDuplicate overrides the duplicate policy. Nil means membership in the index.
	IsDuplicate DuplicateFunc[T]
	// ShiftOnProcess dequeues the head task before its ProcessFunc runs instead
	// of after its continuation fires.
	ShiftOnProcess bool
	// Logger overrides the package-global zerolog logger.
	Logger *zerolog.Logger
}

// Queue is a single-consumer FIFO task queue. Tasks are handed to the
// processing function one at a time; each task's continuation triggers the
// next. Adding a task whose key is already queued is a silent no-op.
type Queue[T any] struct {
	mu    sync.Mutex
	tasks []T
	// index maps key to position at insertion time. Positions are written on
	// insert and deleted on dequeue/clear, never rewritten, so they go stale
	// after any other removal; only membership is meaningful.
	index    map[string]int
	draining bool

	process        ProcessFunc[T]
	name           string
	keyFunc        KeyFunc[T]
	isDuplicate    DuplicateFunc[T]
	shiftOnProcess bool
	logger         zerolog.Logger

	handlers  map[string][]EventHandler
	handlerMu sync.RWMutex
}

// New creates a queue driven by process. It panics if process is nil.
func New[T any](process ProcessFunc[T], cfg Config[T]) *Queue[T] {
	if process == nil {
		panic("taskq: nil process function")
	}

	observability.EnsureRegistered()

	name := cfg.Name
	if name == "" {
		name = "default"
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	isDuplicate := cfg.IsDuplicate
	if isDuplicate == nil {
		isDuplicate = func(_ T, key string, queued func(string) bool) bool {
			return queued(key)
		}
	}

	return &Queue[T]{
		tasks:          make([]T, 0),
		index:          make(map[string]int),
		process:        process,
		name:           name,
		keyFunc:        cfg.KeyFunc,
		isDuplicate:    isDuplicate,
		shiftOnProcess: cfg.ShiftOnProcess,
		logger:         logger.With().Str("queue", name).Logger(),
		handlers:       make(map[string][]EventHandler),
	}
}

// Add inserts a single task through the duplicate-checked path. When the queue
// was empty before the call and startProcessing is true, draining begins
// before Add returns. The input task is returned even when it was suppressed
// as a duplicate.
func (q *Queue[T]) Add(task T, startProcessing bool) T {
	q.mu.Lock()
	wasEmpty := len(q.tasks) == 0
	event := q.insertLocked(task)
	q.mu.Unlock()

	q.emit(event)

	if wasEmpty && startProcessing {
		q.Process()
	}
	return task
}

// AddAll inserts a batch, each task through the same duplicate-checked path as
// Add. Emptiness is snapshotted once, before any insertion. The returned slice
// is the full input, suppressed duplicates included.
func (q *Queue[T]) AddAll(tasks []T, startProcessing bool) []T {
	q.mu.Lock()
	wasEmpty := len(q.tasks) == 0
	events := make([]Event, 0, len(tasks))
	for _, task := range tasks {
		events = append(events, q.insertLocked(task))
	}
	q.mu.Unlock()

	for _, event := range events {
		q.emit(event)
	}

	if wasEmpty && startProcessing {
		q.Process()
	}
	return tasks
}

// IsEmpty reports whether no tasks are queued. With ShiftOnProcess disabled
// the in-flight task still counts until its continuation fires.
func (q *Queue[T]) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks) == 0
}

// Len returns the number of queued tasks.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Process drains the queue, one task at a time. Calling it on an empty queue
// is a no-op, as is calling it while a task is already in flight; the
// in-flight task's continuation owns advancement.
func (q *Queue[T]) Process() {
	q.mu.Lock()
	if q.draining || len(q.tasks) == 0 {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()

	q.drain()
}

// Clear drops every queued task and its index entry. A task already handed to
// the processing function is unaffected; its continuation will find the queue
// empty and stop draining.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	removed := len(q.tasks)
	q.index = make(map[string]int)
	q.tasks = make([]T, 0)
	q.mu.Unlock()

	q.logger.Info().Int("cleared", removed).Msg("Queue cleared")
	observability.RecordClear(q.name)

	q.emit(Event{
		Type:  EventCleared,
		Queue: q.name,
		Data: map[string]interface{}{
			"cleared": removed,
		},
	})
}

// insertLocked runs the duplicate-checked insert and returns the event to
// emit once the lock is released.
func (q *Queue[T]) insertLocked(task T) Event {
	key, keyed := q.key(task)

	if keyed && q.isDuplicate(task, key, q.queuedLocked) {
		q.logger.Debug().Str("key", key).Msg("Duplicate task suppressed")
		observability.RecordDuplicate(q.name)
		return Event{Type: EventDuplicate, Queue: q.name, Key: key}
	}

	q.tasks = append(q.tasks, task)
	if keyed {
		q.index[key] = len(q.tasks) - 1
	}
	size := len(q.tasks)

	q.logger.Debug().Str("key", key).Int("queueSize", size).Msg("Task enqueued")
	observability.RecordEnqueue(q.name, size)

	return Event{
		Type:  EventEnqueued,
		Queue: q.name,
		Key:   key,
		Data: map[string]interface{}{
			"queueSize": size,
		},
	}
}

// dequeueLocked removes the head task and deletes its index entry
// unconditionally; for a keyless head that is a delete of an absent key.
func (q *Queue[T]) dequeueLocked() {
	if len(q.tasks) == 0 {
		return
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	if key, keyed := q.key(task); keyed {
		delete(q.index, key)
	}
}

func (q *Queue[T]) key(task T) (string, bool) {
	if q.keyFunc == nil {
		return "", false
	}
	return q.keyFunc(task)
}

// queuedLocked is the membership test handed to the duplicate policy. Callers
// hold q.mu.
func (q *Queue[T]) queuedLocked(key string) bool {
	_, ok := q.index[key]
	return ok
}

// drain hands tasks to the processing function until the queue empties or a
// task defers its completion, in which case the continuation re-enters drain
// and the loop picks up where it left off.
func (q *Queue[T]) drain() {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		if q.shiftOnProcess {
			q.dequeueLocked()
		}
		q.mu.Unlock()

		if !q.runTask(task) {
			return
		}
	}
}

// runTask invokes the processing function for one task and reports whether the
// continuation fired before the function returned. Deferred continuations
// resume the drain themselves.
func (q *Queue[T]) runTask(task T) bool {
	key, _ := q.key(task)

	ctx := tracing.WithQueueName(context.Background(), q.name)
	if key != "" {
		ctx = tracing.WithTaskKey(ctx, key)
	}
	ctx, span := tracing.StartSpan(ctx, "taskq", "taskq.process_task",
		attribute.String("queue", q.name),
		attribute.String("task_key", key),
	)

	logger := tracing.LoggerFromContext(ctx, q.logger)
	logger.Debug().Str("key", key).Msg("Task started")

	start := time.Now()

	var stateMu sync.Mutex
	completed := false
	finished := false
	returned := false

	done := func() {
		stateMu.Lock()
		if completed {
			stateMu.Unlock()
			logger.Warn().Str("key", key).Msg("Task continuation invoked more than once")
			return
		}
		completed = true
		stateMu.Unlock()

		span.End()

		q.mu.Lock()
		if !q.shiftOnProcess && len(q.tasks) > 0 {
			q.dequeueLocked()
		}
		size := len(q.tasks)
		q.mu.Unlock()

		duration := time.Since(start)
		logger.Debug().
			Str("key", key).
			Dur("duration", duration).
			Int("queueSize", size).
			Msg("Task processed")
		observability.RecordCompletion(q.name, duration, size)

		q.emit(Event{
			Type:  EventProcessed,
			Queue: q.name,
			Key:   key,
			Data: map[string]interface{}{
				"duration":  duration.Milliseconds(),
				"queueSize": size,
			},
		})

		stateMu.Lock()
		finished = true
		deferred := returned
		stateMu.Unlock()

		if deferred {
			q.drain()
		}
	}

	q.process(task, done)

	stateMu.Lock()
	returned = true
	inline := finished
	stateMu.Unlock()
	return inline
}
