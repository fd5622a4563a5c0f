package workerpool

import (
	"context"
	"sync"
)

// Future is the one-shot result of a task submitted with Submit.
//
// It is resolved exactly once, either by the worker that ran the task
// or with ErrCancelled when the task is discarded before it starts.
// Any number of goroutines may read it.
type Future[R any] struct {
	done chan struct{}
	once sync.Once

	val R
	err error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// resolve publishes the outcome. Later calls are ignored.
func (f *Future[R]) resolve(val R, err error) {
	f.once.Do(func() {
		f.val = val
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the outcome is available.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the task has finished and returns its outcome.
func (f *Future[R]) Wait() (R, error) {
	<-f.done
	return f.val, f.err
}

// Get is like Wait but gives up when ctx is done. Abandoning a Future
// does not cancel the task.
func (f *Future[R]) Get(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// TryGet returns the outcome without blocking. ok is false while the
// task is still pending.
func (f *Future[R]) TryGet() (val R, err error, ok bool) {
	select {
	case <-f.done:
		return f.val, f.err, true
	default:
		var zero R
		return zero, nil, false
	}
}
