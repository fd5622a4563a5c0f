package workerpool

import (
	"context"
)

// task is a single queued unit of work.
//
// It is owned by the queue until a worker pops it under the pool lock,
// then by that worker until finish has been called.
type task struct {
	priority Priority
	name     string
	retry    *RetryPolicy

	// call runs the user function once.
	call func(ctx context.Context) error

	// finish publishes the terminal outcome: nil, a *TaskError or
	// ErrCancelled. It is called exactly once.
	finish func(err error)
}

// TaskOption configures a single submission.
type TaskOption func(*taskConfig)

type taskConfig struct {
	priority Priority
	name     string
	retry    *RetryPolicy
}

// WithPriority sets the task priority. Higher values run first.
func WithPriority(p Priority) TaskOption {
	return func(c *taskConfig) { c.priority = p }
}

// WithName labels the task in logs, errors and trace spans.
func WithName(name string) TaskOption {
	return func(c *taskConfig) { c.name = name }
}

// WithRetry overrides the pool retry policy for this task.
// Zero fields inherit the pool defaults.
func WithRetry(rp RetryPolicy) TaskOption {
	return func(c *taskConfig) { c.retry = &rp }
}

func buildTaskConfig(opts []TaskOption) taskConfig {
	cfg := taskConfig{priority: DefaultPriority}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// Submit queues fn and returns a Future for its result.
//
// Without WithPriority the task uses DefaultPriority. The context passed
// to fn identifies the worker running it; hand it to Wait or Shutdown
// when calling them from inside a task.
//
// Submit fails with ErrSubmissionRejected once the pool is shut down.
func Submit[R any](p *Pool, fn func(ctx context.Context) (R, error), opts ...TaskOption) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	cfg := buildTaskConfig(opts)
	fut := newFuture[R]()

	var val R
	t := &task{
		priority: cfg.priority,
		name:     cfg.name,
		retry:    cfg.retry,
		call: func(ctx context.Context) error {
			v, err := fn(ctx)
			if err == nil {
				val = v
			}
			return err
		},
		finish: func(err error) {
			if err != nil {
				var zero R
				fut.resolve(zero, err)
				return
			}
			fut.resolve(val, nil)
		},
	}
	if err := p.enqueue(t); err != nil {
		return nil, err
	}
	return fut, nil
}

// Go queues fn without a Future. Failures are reported to
// Options.OnTaskError and logged, since nobody observes them otherwise.
func (p *Pool) Go(fn func(ctx context.Context) error, opts ...TaskOption) error {
	if fn == nil {
		return ErrNilFunc
	}
	cfg := buildTaskConfig(opts)
	t := &task{
		priority: cfg.priority,
		name:     cfg.name,
		retry:    cfg.retry,
		call:     fn,
	}
	t.finish = func(err error) {
		if err != nil {
			p.reportTaskError(t, err)
		}
	}
	return p.enqueue(t)
}
