package taskq

// Event types emitted by a Queue.
const (
	EventEnqueued  = "enqueued"
	EventDuplicate = "duplicate"
	EventProcessed = "processed"
	EventCleared   = "cleared"
)

// Event describes a queue state change.
type Event struct {
	Type  string                 // one of the Event* constants
	Queue string                 // queue name
	Key   string                 // index key of the task involved, empty for keyless tasks
	Data  map[string]interface{} // additional event data
}

// EventHandler is a function that handles queue events.
type EventHandler func(event Event)

// On registers an event handler for a specific event type.
func (q *Queue[T]) On(eventType string, handler EventHandler) {
	q.handlerMu.Lock()
	defer q.handlerMu.Unlock()

	q.handlers[eventType] = append(q.handlers[eventType], handler)
}

// Off removes all handlers for the event type.
func (q *Queue[T]) Off(eventType string) {
	q.handlerMu.Lock()
	defer q.handlerMu.Unlock()

	delete(q.handlers, eventType)
}

// emit calls handlers synchronously, outside the queue lock.
func (q *Queue[T]) emit(event Event) {
	q.handlerMu.RLock()
	handlers := q.handlers[event.Type]
	q.handlerMu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
