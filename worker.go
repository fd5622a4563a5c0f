package workerpool

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
)

// workerIdentity names one worker of one pool. A pool recognises calls
// made from its own workers by looking the identity up in its owned set.
type workerIdentity struct {
	pool  uuid.UUID
	index int
}

type workerKey struct{}

func identityFromContext(ctx context.Context) (workerIdentity, bool) {
	id, ok := ctx.Value(workerKey{}).(workerIdentity)
	return id, ok
}

// WorkerIndex returns the index of the worker running the task that
// received ctx. ok is false outside of a task.
func WorkerIndex(ctx context.Context) (int, bool) {
	id, ok := identityFromContext(ctx)
	return id.index, ok
}

type worker struct {
	index    int
	identity workerIdentity

	// ctx is handed to every task this worker runs.
	ctx context.Context
}

func newWorker(p *Pool, index int) *worker {
	id := workerIdentity{pool: p.id, index: index}
	return &worker{
		index:    index,
		identity: id,
		ctx:      context.WithValue(p.ctx, workerKey{}, id),
	}
}

// runWorker is the worker loop: wait for an admissible task, run it
// outside the lock, report completion. It returns once the pool is
// stopped and the queue is empty.
func (p *Pool) runWorker(w *worker) {
	defer p.wg.Done()

	if p.pin {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := PinToCPU(w.index); err != nil {
			p.reportInternalError(fmt.Errorf("worker %d: %w", w.index, err))
		}
	}

	for {
		t, ok := p.next()
		if !ok {
			return
		}
		p.execute(w, t)
		p.complete()
	}
}

// next blocks until a task may be taken or the worker must exit.
// The pop and the running increment happen under the same lock.
func (p *Pool) next() (*task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for !p.stopped && (p.paused || p.queue.Len() == 0) {
		p.workCond.Wait()
	}
	// Stopped pools keep draining until the queue is empty.
	t, ok := p.queue.Pop()
	if !ok {
		return nil, false
	}
	p.running++
	p.metrics.SetQueued(p.queue.Len())
	p.metrics.SetRunning(p.running)
	return t, true
}

// complete releases the running slot and wakes Wait callers once the
// pool is idle, or once a pause leaves it unable to progress.
func (p *Pool) complete() {
	p.mu.Lock()
	p.running--
	p.metrics.SetRunning(p.running)
	if p.running == 0 && (p.queue.Len() == 0 || p.paused) {
		p.idleCond.Broadcast()
	}
	p.mu.Unlock()
}
