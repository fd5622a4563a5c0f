// Package workerpool provides a priority-scheduled worker pool with
// result futures, pause/resume, draining and two shutdown modes.
//
// Architecture overview
//
// The pool is composed of three layers:
//
//  1. Scheduling (levelQueue)
//     One shared queue for all workers. Tasks are grouped by priority
//     level; higher priorities are served first and tasks of equal
//     priority are served in submission order (FIFO).
//
//  2. Execution (Pool / workers)
//     A fixed set of worker goroutines, started with the pool. Each one
//     waits for an admissible task, runs it outside the pool lock and
//     reports completion. Parallelism is bounded by the worker count,
//     which is clamped into [1, GOMAXPROCS].
//
//  3. Task lifecycle
//     A task carries its priority, an optional name and retry policy,
//     and the function to run. Submit returns a Future that resolves
//     exactly once with the value, a *TaskError or ErrCancelled. Go
//     submits without a Future.
//
// Synchronization
//
// The queue, the stop and pause flags and the running counter are
// guarded by a single mutex with two condition variables: one wakes
// workers when work arrives or the pool stops, the other wakes Wait
// callers when the pool becomes idle.
//
// Wait is satisfied exactly when the queue is empty and nothing is
// running. It never blocks forever behind Pause: if the pool is paused
// with queued tasks and nothing running, Wait returns ErrWaitPaused.
//
// Calls from inside a task
//
// The context handed to a task identifies the worker running it. When
// a task passes that context to Wait on its own pool, Wait returns
// ErrDeadlockDetected instead of hanging. Shutdown called the same way
// stops the pool without joining the calling worker.
//
// Error handling
//
// The pool distinguishes between two classes of errors:
//
//   - Task errors: returned by task functions or produced by panic
//     recovery. They are delivered through the task's Future, or to
//     Options.OnTaskError for tasks submitted with Go.
//   - Misuse errors: submitting after shutdown (ErrSubmissionRejected),
//     self-deadlocking Wait (ErrDeadlockDetected). They are returned
//     synchronously to the caller.
//
// A failing or panicking task never stops its worker.
//
// Shutdown
//
// Graceful shutdown rejects new work and lets the queue drain.
// Immediate shutdown rejects new work and cancels every queued task;
// tasks already running are never interrupted. A stopped pool cannot
// be restarted.
//
// CPU pinning
//
// On Linux, workers may optionally be pinned to specific CPUs.
// When enabled, workers are locked to OS threads and restricted
// to run on a single CPU core.
package workerpool
