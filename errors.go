package workerpool

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmissionRejected is returned when a task is submitted to a pool
	// that has been shut down. The task is never queued.
	ErrSubmissionRejected = errors.New("workerpool: pool is shut down, submission rejected")

	// ErrPoolShutDown is an alias of ErrSubmissionRejected.
	ErrPoolShutDown = ErrSubmissionRejected

	// ErrDeadlockDetected is returned when Wait is called from a task
	// running on a worker of the same pool.
	ErrDeadlockDetected = errors.New("workerpool: control call from own worker would deadlock")

	// ErrTaskFailed matches every *TaskError via errors.Is.
	ErrTaskFailed = errors.New("workerpool: task failed")

	// ErrCancelled resolves tasks that were removed from the queue by
	// ClearQueue or an immediate shutdown before they started.
	ErrCancelled = errors.New("workerpool: task cancelled before start")

	// ErrWaitPaused is returned by Wait when the pool is paused, nothing
	// is running and queued tasks remain, so waiting would never end.
	ErrWaitPaused = errors.New("workerpool: wait blocked by pause")

	// ErrNilFunc is returned when a submitted task has a nil function.
	ErrNilFunc = errors.New("workerpool: task func is nil")

	// ErrAffinityUnsupported is reported when PinWorkers is set on a
	// platform without CPU affinity support.
	ErrAffinityUnsupported = errors.New("workerpool: cpu affinity not supported")
)

// TaskError carries the failure of a single task: either the error its
// function returned on the last attempt or a recovered panic.
type TaskError struct {
	Name     string
	Priority Priority
	Attempts int

	// Panic holds the recovered value when the task panicked.
	Panic any

	Err error
}

func (e *TaskError) Error() string {
	name := e.Name
	if name == "" {
		name = "task"
	}
	if e.Panic != nil {
		return fmt.Sprintf("workerpool: %s (priority %d) panicked: %v", name, e.Priority, e.Panic)
	}
	return fmt.Sprintf("workerpool: %s (priority %d) failed after %d attempt(s): %v",
		name, e.Priority, e.Attempts, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// Is reports ErrTaskFailed as a match so callers can classify failures
// without knowing the underlying cause.
func (e *TaskError) Is(target error) bool { return target == ErrTaskFailed }
