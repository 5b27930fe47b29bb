package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	queueSize      *prometheus.GaugeVec
	enqueueTotal   *prometheus.CounterVec
	duplicateTotal *prometheus.CounterVec
	dequeueTotal   *prometheus.CounterVec
	clearTotal     *prometheus.CounterVec
	taskDuration   *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			queueSize: prometheus.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "queue_size",
					Help: "Current queue size by queue.",
				},
				[]string{"queue"},
			),
			enqueueTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "enqueue_total",
					Help: "Total enqueue operations by queue.",
				},
				[]string{"queue"},
			),
			duplicateTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "duplicate_total",
					Help: "Total insertions suppressed as duplicates by queue.",
				},
				[]string{"queue"},
			),
			dequeueTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "dequeue_total",
					Help: "Total completed tasks by queue.",
				},
				[]string{"queue"},
			),
			clearTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "clear_total",
					Help: "Total clear operations by queue.",
				},
				[]string{"queue"},
			),
			taskDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "task_duration_seconds",
					Help:    "Task processing duration in seconds by queue.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"queue"},
			),
		}

		prometheus.MustRegister(
			m.queueSize,
			m.enqueueTotal,
			m.duplicateTotal,
			m.dequeueTotal,
			m.clearTotal,
			m.taskDuration,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

func RecordEnqueue(queue string, queueSize int) {
	m := getMetrics()
	m.enqueueTotal.WithLabelValues(queue).Inc()
	m.queueSize.WithLabelValues(queue).Set(float64(queueSize))
}

func RecordDuplicate(queue string) {
	m := getMetrics()
	m.duplicateTotal.WithLabelValues(queue).Inc()
}

func RecordCompletion(queue string, duration time.Duration, queueSize int) {
	m := getMetrics()
	m.dequeueTotal.WithLabelValues(queue).Inc()
	m.taskDuration.WithLabelValues(queue).Observe(duration.Seconds())
	m.queueSize.WithLabelValues(queue).Set(float64(queueSize))
}

func RecordClear(queue string) {
	m := getMetrics()
	m.clearTotal.WithLabelValues(queue).Inc()
	m.queueSize.WithLabelValues(queue).Set(0)
}

func SetQueueSize(queue string, queueSize int) {
	m := getMetrics()
	m.queueSize.WithLabelValues(queue).Set(float64(queueSize))
}
