package workerpool

import (
	"context"
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Pool is a fixed set of workers serving one shared priority queue.
//
// The queue, the stop and pause flags and the running counter are guarded
// by mu. workCond wakes workers (work available or stop requested);
// idleCond wakes Wait callers (pool became idle or can no longer make
// progress). Task functions always run with mu released.
type Pool struct {
	id   uuid.UUID
	name string
	ctx  context.Context

	mu       sync.Mutex
	workCond *sync.Cond
	idleCond *sync.Cond
	queue    *levelQueue
	stopped  bool
	paused   bool
	running  int

	workers []*worker
	// owned is built before the workers start and never modified.
	owned map[workerIdentity]struct{}

	wg   sync.WaitGroup
	done chan struct{}

	pin          bool
	defaultRetry RetryPolicy
	metrics      MetricsPolicy
	tracer       trace.Tracer

	onTaskError     func(error)
	onInternalError func(error)
}

// NewPool starts a pool with the given number of workers, clamped into
// [1, GOMAXPROCS]. Zero or out-of-range counts use GOMAXPROCS.
func NewPool(workers int) *Pool {
	opts := Options{Workers: workers}
	opts.FillDefaults()
	return newPool(opts)
}

// NewPoolFromOptions validates opts, fills in defaults and starts the pool.
func NewPoolFromOptions(opts Options) (*Pool, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.FillDefaults()
	return newPool(opts), nil
}

func newPool(opts Options) *Pool {
	p := &Pool{
		id:              uuid.New(),
		name:            opts.Name,
		ctx:             opts.Context,
		queue:           newLevelQueue(),
		done:            make(chan struct{}),
		pin:             opts.PinWorkers,
		defaultRetry:    opts.Retry,
		metrics:         opts.Metrics,
		tracer:          opts.Tracer,
		onTaskError:     opts.OnTaskError,
		onInternalError: opts.OnInternalError,
	}
	p.workCond = sync.NewCond(&p.mu)
	p.idleCond = sync.NewCond(&p.mu)

	p.workers = make([]*worker, opts.Workers)
	p.owned = make(map[workerIdentity]struct{}, opts.Workers)
	for i := range p.workers {
		w := newWorker(p, i)
		p.workers[i] = w
		p.owned[w.identity] = struct{}{}
	}

	p.wg.Add(len(p.workers))
	for _, w := range p.workers {
		go p.runWorker(w)
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()

	lg.FromContext(p.ctx).Info("workerpool started",
		lg.String("pool", p.name),
		lg.String("id", p.id.String()),
		lg.Int("workers", len(p.workers)),
	)
	return p
}

// enqueue pushes t under the lock and wakes one worker unless paused.
func (p *Pool) enqueue(t *task) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.metrics.IncRejected()
		return ErrSubmissionRejected
	}
	p.queue.Push(t)
	p.metrics.IncSubmitted()
	p.metrics.SetQueued(p.queue.Len())
	if !p.paused {
		p.workCond.Signal()
	}
	p.mu.Unlock()
	return nil
}

// Wait blocks until the queue is empty and no task is running.
//
// From inside a task, pass the task's context: Wait then fails with
// ErrDeadlockDetected instead of blocking forever. While the pool is
// paused with queued work and nothing running, Wait returns
// ErrWaitPaused. If ctx is done first, Wait returns ctx.Err().
func (p *Pool) Wait(ctx context.Context) error {
	if p.calledFromWorker(ctx) {
		return ErrDeadlockDetected
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		p.idleCond.Broadcast()
		p.mu.Unlock()
	})
	defer stop()

	for {
		if p.queue.Len() == 0 && p.running == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.paused && p.running == 0 {
			return ErrWaitPaused
		}
		p.idleCond.Wait()
	}
}

// Pause stops workers from taking new tasks. Running tasks continue.
// Pausing a paused or stopped pool does nothing.
func (p *Pool) Pause() {
	p.mu.Lock()
	if p.stopped || p.paused {
		p.mu.Unlock()
		return
	}
	p.paused = true
	// Wait callers may now be unable to make progress.
	p.idleCond.Broadcast()
	p.mu.Unlock()

	lg.FromContext(p.ctx).Info("workerpool paused", lg.String("pool", p.name))
}

// Resume lets workers take tasks again. Resuming a running pool does nothing.
func (p *Pool) Resume() {
	p.mu.Lock()
	if !p.paused {
		p.mu.Unlock()
		return
	}
	p.paused = false
	p.workCond.Broadcast()
	p.mu.Unlock()

	lg.FromContext(p.ctx).Info("workerpool resumed", lg.String("pool", p.name))
}

// ClearQueue removes every task that has not started yet and returns how
// many were removed. Their Futures resolve to ErrCancelled.
func (p *Pool) ClearQueue() int {
	p.mu.Lock()
	dropped := p.queue.Drain()
	p.metrics.SetQueued(0)
	if p.running == 0 {
		p.idleCond.Broadcast()
	}
	p.mu.Unlock()

	p.cancelTasks(dropped)
	if len(dropped) > 0 {
		lg.FromContext(p.ctx).Info("workerpool queue cleared",
			lg.String("pool", p.name),
			lg.Int("cancelled", len(dropped)),
		)
	}
	return len(dropped)
}

// Shutdown stops the pool and waits for its workers to exit.
//
// Graceful lets queued tasks run; Immediate cancels them first. New
// submissions are rejected from the first call on. Later calls change
// nothing and only wait again. If ctx ends before the workers exit,
// Shutdown returns ctx.Err() while the stop carries on in the background.
//
// Called from inside a task with the task's context, Shutdown initiates
// the stop but does not wait: the calling worker exits on its own once
// its task returns.
func (p *Pool) Shutdown(ctx context.Context, mode ShutdownMode) error {
	p.mu.Lock()
	first := !p.stopped
	var dropped []*task
	if first {
		p.stopped = true
		p.paused = false
		if mode == Immediate {
			dropped = p.queue.Drain()
			p.metrics.SetQueued(0)
		}
		p.workCond.Broadcast()
		p.idleCond.Broadcast()
	}
	p.mu.Unlock()

	logger := lg.FromContext(p.ctx).With(lg.String("pool", p.name))
	if first {
		logger.Info("workerpool shutting down",
			lg.String("mode", mode.String()),
			lg.Int("cancelled", len(dropped)),
		)
		p.cancelTasks(dropped)
	}

	if p.calledFromWorker(ctx) {
		if first {
			logger.Warn("shutdown requested from own worker; not joining")
		}
		return nil
	}

	select {
	case <-p.done:
		if first {
			logger.Info("workerpool stopped")
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop is a blocking graceful shutdown.
// It must not be called from inside a task; use Shutdown with the task's context there.
func (p *Pool) Stop() { _ = p.Shutdown(context.Background(), Graceful) }

func (p *Pool) cancelTasks(ts []*task) {
	if len(ts) == 0 {
		return
	}
	p.metrics.AddCancelled(len(ts))
	for _, t := range ts {
		p.finishTask(t, ErrCancelled)
	}
}

// calledFromWorker reports whether ctx carries the identity of one of
// this pool's workers.
func (p *Pool) calledFromWorker(ctx context.Context) bool {
	id, ok := identityFromContext(ctx)
	if !ok {
		return false
	}
	_, owned := p.owned[id]
	return owned
}

// ID returns the unique identity of the pool.
func (p *Pool) ID() string { return p.id.String() }

// Name returns the configured pool name.
func (p *Pool) Name() string { return p.name }

// Done is closed once every worker has exited after Shutdown.
func (p *Pool) Done() <-chan struct{} { return p.done }

// ThreadCount returns the number of workers.
func (p *Pool) ThreadCount() int { return len(p.workers) }

func (p *Pool) QueueSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

func (p *Pool) RunningCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Pool) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Pool) IsStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}
