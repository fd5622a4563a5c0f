package workerpool_test

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	wp "github.com/azargarov/ppool"
)

const testTimeout = 2 * time.Second

func newTestPool(t *testing.T, workers int) *wp.Pool {
	t.Helper()

	p := wp.NewPool(workers)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = p.Shutdown(ctx, wp.Immediate)
	})
	return p
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not satisfied before timeout")
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

// blocker is a task body that parks until released.
type blocker struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlocker() *blocker {
	return &blocker{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blocker) run(context.Context) (int, error) {
	close(b.started)
	<-b.release
	return 0, nil
}

func (b *blocker) Release() { b.once.Do(func() { close(b.release) }) }

// recorder collects values in the order tasks ran.
type recorder struct {
	mu    sync.Mutex
	order []int
}

func (r *recorder) add(v int) {
	r.mu.Lock()
	r.order = append(r.order, v)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.order...)
}
