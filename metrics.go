package workerpool

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"
)

// MetricsPolicy defines hooks used by the worker pool to report
// queueing and execution activity.
//
// Implementations must be safe for concurrent use.
// SetQueued and SetRunning are called with the pool lock held, so all
// methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {
	// IncSubmitted counts a task accepted into the queue.
	IncSubmitted()

	// IncRejected counts a submission refused because the pool is shut down.
	IncRejected()

	// IncExecuted counts a task that finished running, successfully or not.
	IncExecuted()

	// IncFailed counts a task whose outcome is a *TaskError.
	IncFailed()

	// AddCancelled counts n queued tasks discarded before they ran.
	AddCancelled(n int)

	// SetQueued publishes the current queue depth.
	SetQueued(n int)

	// SetRunning publishes the number of tasks currently executing.
	SetRunning(n int)

	// ObserveDuration records the wall time of one task execution.
	ObserveDuration(d time.Duration)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64
	rejected  atomic.Uint64

	_ cpu.CacheLinePad

	executed  atomic.Uint64
	failed    atomic.Uint64
	cancelled atomic.Uint64
	busyNanos atomic.Int64

	_ cpu.CacheLinePad

	queued  atomic.Int64
	running atomic.Int64
}

func (m *AtomicMetrics) IncSubmitted()      { m.submitted.Add(1) }
func (m *AtomicMetrics) IncRejected()       { m.rejected.Add(1) }
func (m *AtomicMetrics) IncExecuted()       { m.executed.Add(1) }
func (m *AtomicMetrics) IncFailed()         { m.failed.Add(1) }
func (m *AtomicMetrics) AddCancelled(n int) { m.cancelled.Add(uint64(n)) }
func (m *AtomicMetrics) SetQueued(n int)    { m.queued.Store(int64(n)) }
func (m *AtomicMetrics) SetRunning(n int)   { m.running.Store(int64(n)) }

func (m *AtomicMetrics) ObserveDuration(d time.Duration) { m.busyNanos.Add(int64(d)) }

// Snapshot returns a point-in-time copy of the counters.
func (m *AtomicMetrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Submitted: m.submitted.Load(),
		Rejected:  m.rejected.Load(),
		Executed:  m.executed.Load(),
		Failed:    m.failed.Load(),
		Cancelled: m.cancelled.Load(),
		Queued:    m.queued.Load(),
		Running:   m.running.Load(),
		Busy:      time.Duration(m.busyNanos.Load()),
	}
}

// MetricsSnapshot is a plain copy of AtomicMetrics.
type MetricsSnapshot struct {
	Submitted uint64
	Rejected  uint64
	Executed  uint64
	Failed    uint64
	Cancelled uint64
	Queued    int64
	Running   int64

	// Busy is the summed execution time of all tasks.
	Busy time.Duration
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted()                 {}
func (m *NoopMetrics) IncRejected()                  {}
func (m *NoopMetrics) IncExecuted()                  {}
func (m *NoopMetrics) IncFailed()                    {}
func (m *NoopMetrics) AddCancelled(int)              {}
func (m *NoopMetrics) SetQueued(int)                 {}
func (m *NoopMetrics) SetRunning(int)                {}
func (m *NoopMetrics) ObserveDuration(time.Duration) {}
