package workerpool

import (
	"errors"

	lg "github.com/Andrej220/go-utils/zlog"
)

// reportInternalError reports an internal pool error.
//
// Internal errors are non-task failures such as
// worker setup issues (CPU pinning).
// If no handler is registered, the error is only logged.
func (p *Pool) reportInternalError(e error) {
	lg.FromContext(p.ctx).Warn("workerpool internal error",
		lg.String("pool", p.name),
		lg.Any("error", e),
	)
	if p.onInternalError != nil {
		p.onInternalError(e)
	}
}

// reportTaskError reports the outcome of a task submitted without a
// Future. Cancellation is expected during ClearQueue and immediate
// shutdown and is not logged as an error.
func (p *Pool) reportTaskError(t *task, err error) {
	logger := lg.FromContext(p.ctx).With(
		lg.String("pool", p.name),
		lg.String("task", t.name),
		lg.Int("priority", int(t.priority)),
	)
	if errors.Is(err, ErrCancelled) {
		logger.Info("task discarded before start")
	} else {
		logger.Error("task failed", lg.Any("error", err))
	}
	if p.onTaskError != nil {
		p.onTaskError(err)
	}
}
