package workerpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// execute runs t on w and publishes its outcome. It is called without
// the pool lock; the caller releases the running slot afterwards, so
// the outcome is always visible before Wait can return.
func (p *Pool) execute(w *worker, t *task) {
	ctx, span := p.startTaskSpan(w.ctx, w, t)

	start := time.Now()
	attempts, err := p.runWithRetry(ctx, w, t)
	p.metrics.ObserveDuration(time.Since(start))
	p.metrics.IncExecuted()
	if err != nil {
		p.metrics.IncFailed()
	}

	endTaskSpan(span, attempts, err)
	p.finishTask(t, err)
}

// runWithRetry calls the task until it succeeds, panics or runs out of
// attempts, backing off between tries. It returns the number of attempts
// made and a *TaskError on failure.
func (p *Pool) runWithRetry(ctx context.Context, w *worker, t *task) (int, error) {
	pol := t.retry.merge(p.defaultRetry)
	logger := lg.FromContext(ctx).With(
		lg.String("pool", p.name),
		lg.String("task", t.name),
		lg.Int("priority", int(t.priority)),
		lg.Int("worker", w.index),
	)

	bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

	for attempt := 1; ; attempt++ {
		panicked, err := callTask(ctx, t)
		if err == nil {
			return attempt, nil
		}
		if panicked != nil {
			logger.Error("task panicked",
				lg.Any("panic", panicked),
				lg.String("stack", string(debug.Stack())),
			)
			return attempt, &TaskError{Name: t.name, Priority: t.priority, Attempts: attempt, Panic: panicked, Err: err}
		}
		if attempt >= pol.Attempts {
			return attempt, &TaskError{Name: t.name, Priority: t.priority, Attempts: attempt, Err: err}
		}

		delay := bo.Next()
		logger.Warn("task attempt failed; backing off",
			lg.Int("attempt", attempt),
			lg.String("sleep", delay.String()),
			lg.Any("error", err),
		)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.Info("task retry abandoned", lg.Any("reason", ctx.Err()))
			return attempt, &TaskError{Name: t.name, Priority: t.priority, Attempts: attempt, Err: err}
		}
	}
}

// callTask runs the task function once, converting a panic into an error.
func callTask(ctx context.Context, t *task) (panicked any, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked = r
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	err = t.call(ctx)
	return nil, err
}

// finishTask publishes the outcome. A panicking error handler must not
// take the worker down with it.
func (p *Pool) finishTask(t *task, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.reportInternalError(fmt.Errorf("task outcome handler panicked: %v", r))
		}
	}()
	t.finish(err)
}
