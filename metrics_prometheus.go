package workerpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics exports pool activity as Prometheus metrics.
//
// Metrics exposed (prefixed with the namespace):
//   - tasks_submitted_total, tasks_rejected_total
//   - tasks_executed_total, tasks_failed_total, tasks_cancelled_total
//   - queue_depth, running_tasks
//   - task_duration_seconds
type PrometheusMetrics struct {
	Submitted prometheus.Counter
	Rejected  prometheus.Counter
	Executed  prometheus.Counter
	Failed    prometheus.Counter
	Cancelled prometheus.Counter
	Queued    prometheus.Gauge
	Running   prometheus.Gauge
	Duration  prometheus.Histogram
}

// NewPrometheusMetrics registers the pool metrics with registerer.
// A nil registerer uses prometheus.DefaultRegisterer.
func NewPrometheusMetrics(registerer prometheus.Registerer, namespace string) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "workerpool"
	}
	f := promauto.With(registerer)

	return &PrometheusMetrics{
		Submitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks accepted into the queue",
		}),
		Rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_rejected_total",
			Help:      "Total number of submissions rejected after shutdown",
		}),
		Executed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_executed_total",
			Help:      "Total number of tasks that finished running",
		}),
		Failed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_failed_total",
			Help:      "Total number of tasks that returned an error or panicked",
		}),
		Cancelled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_cancelled_total",
			Help:      "Total number of queued tasks discarded before they ran",
		}),
		Queued: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Number of tasks waiting in the queue",
		}),
		Running: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running_tasks",
			Help:      "Number of tasks currently executing",
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Task execution time in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
		}),
	}
}

func (m *PrometheusMetrics) IncSubmitted()      { m.Submitted.Inc() }
func (m *PrometheusMetrics) IncRejected()       { m.Rejected.Inc() }
func (m *PrometheusMetrics) IncExecuted()       { m.Executed.Inc() }
func (m *PrometheusMetrics) IncFailed()         { m.Failed.Inc() }
func (m *PrometheusMetrics) AddCancelled(n int) { m.Cancelled.Add(float64(n)) }
func (m *PrometheusMetrics) SetQueued(n int)    { m.Queued.Set(float64(n)) }
func (m *PrometheusMetrics) SetRunning(n int)   { m.Running.Set(float64(n)) }

func (m *PrometheusMetrics) ObserveDuration(d time.Duration) {
	m.Duration.Observe(d.Seconds())
}
