package workerpool_test

import (
	"context"
	"crypto/sha256"
	"runtime"
	"testing"
	"time"

	wp "github.com/azargarov/ppool"
)

type workload struct {
	name string
	fn   func(context.Context) error
}

var shaData = []byte("some deterministic payloadsome deterministic payloadsome deterministic payloadsome deterministic payload")

var (
	emptyWork = func(context.Context) error {
		return nil
	}

	cpuWork = func(context.Context) error {
		x := 0
		for i := range 1000 {
			x += i * i
		}
		_ = x
		return nil
	}

	ioWork = func(context.Context) error {
		time.Sleep(5 * time.Microsecond)
		return nil
	}

	shaWork = func(context.Context) error {
		_ = sha256.Sum256(shaData)
		return nil
	}
)

var workloads = []workload{
	{"empty", emptyWork},
	{"sha256", shaWork},
	{"cpu", cpuWork},
	{"io", ioWork},
}

func BenchmarkPool_Go(b *testing.B) {
	for _, wl := range workloads {
		b.Run(wl.name, func(b *testing.B) {
			p := wp.NewPool(runtime.GOMAXPROCS(0))
			defer p.Stop()

			b.ReportAllocs()
			for b.Loop() {
				if err := p.Go(wl.fn); err != nil {
					b.Fatalf("submit failed: %v", err)
				}
			}
			if err := p.Wait(context.Background()); err != nil {
				b.Fatalf("wait failed: %v", err)
			}
		})
	}
}

func BenchmarkPool_GoMixedPriorities(b *testing.B) {
	p := wp.NewPool(runtime.GOMAXPROCS(0))
	defer p.Stop()

	b.ReportAllocs()
	i := 0
	for b.Loop() {
		if err := p.Go(emptyWork, wp.WithPriority(wp.Priority(i%16))); err != nil {
			b.Fatalf("submit failed: %v", err)
		}
		i++
	}
	if err := p.Wait(context.Background()); err != nil {
		b.Fatalf("wait failed: %v", err)
	}
}

func BenchmarkSubmit_FutureRoundTrip(b *testing.B) {
	p := wp.NewPool(runtime.GOMAXPROCS(0))
	defer p.Stop()

	b.ReportAllocs()
	for b.Loop() {
		fut, err := wp.Submit(p, func(context.Context) (int, error) { return 1, nil })
		if err != nil {
			b.Fatalf("submit failed: %v", err)
		}
		if _, err := fut.Wait(); err != nil {
			b.Fatalf("task failed: %v", err)
		}
	}
}

func BenchmarkSubmit_Parallel(b *testing.B) {
	p := wp.NewPool(runtime.GOMAXPROCS(0))
	defer p.Stop()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := p.Go(cpuWork); err != nil {
				b.Errorf("submit failed: %v", err)
				return
			}
		}
	})
	if err := p.Wait(context.Background()); err != nil {
		b.Fatalf("wait failed: %v", err)
	}
}
