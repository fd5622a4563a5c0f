// Command ppool drives a priority worker pool with a prime-search workload
// and reports the order in which priority classes completed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	wp "github.com/azargarov/ppool"
)

type primeResult struct {
	index int
	prime *big.Int

	// finished is the 1-based completion rank across all tasks.
	finished int64
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configFile  = flag.String("config", "", "pool options file (YAML)")
		workers     = flag.Int("workers", 0, "worker count, overrides the config file (0 = GOMAXPROCS)")
		tasks       = flag.Int("tasks", 64, "number of tasks to submit")
		priorities  = flag.Int("priorities", 4, "number of distinct priority classes")
		bits        = flag.Int("bits", 256, "bit size of the numbers to search primes from")
		modeName    = flag.String("mode", "graceful", "shutdown mode: graceful or immediate")
		metricsAddr = flag.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
		timeout     = flag.Duration("timeout", time.Minute, "give up waiting after this long")
	)
	flag.Parse()

	if *tasks <= 0 || *priorities <= 0 || *bits < 8 {
		fmt.Fprintln(os.Stderr, "ppool: -tasks and -priorities must be positive, -bits at least 8")
		return 2
	}
	mode, err := wp.ParseShutdownMode(*modeName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ppool:", err)
		return 2
	}

	var opts wp.Options
	if *configFile != "" {
		if opts, err = wp.LoadOptions(*configFile); err != nil {
			fmt.Fprintln(os.Stderr, "ppool:", err)
			return 1
		}
	}
	if *workers > 0 {
		opts.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	opts.Context = ctx

	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts.Metrics = wp.NewPrometheusMetrics(reg, "ppool")

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintln(os.Stderr, "ppool: metrics server:", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	pool, err := wp.NewPoolFromOptions(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ppool:", err)
		return 1
	}

	// Queue everything first so the run shows priority order, not arrival order.
	pool.Pause()
	var finished atomic.Int64
	futures := make([]*wp.Future[primeResult], 0, *tasks)
	prios := make([]wp.Priority, 0, *tasks)
	for i := 0; i < *tasks; i++ {
		idx := i
		prio := wp.Priority(i % *priorities)
		fut, err := wp.Submit(pool, func(ctx context.Context) (primeResult, error) {
			p, err := nextPrime(ctx, int64(idx), *bits)
			if err != nil {
				return primeResult{}, err
			}
			return primeResult{index: idx, prime: p, finished: finished.Add(1)}, nil
		}, wp.WithPriority(prio), wp.WithName(fmt.Sprintf("prime-%d", idx)))
		if err != nil {
			fmt.Fprintln(os.Stderr, "ppool: submit:", err)
			return 1
		}
		futures = append(futures, fut)
		prios = append(prios, prio)
	}
	start := time.Now()
	pool.Resume()

	waitCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()
	if err := pool.Wait(waitCtx); err != nil {
		fmt.Fprintln(os.Stderr, "ppool: wait:", err)
		mode = wp.Immediate
	}
	elapsed := time.Since(start)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := pool.Shutdown(shutdownCtx, mode); err != nil {
		fmt.Fprintln(os.Stderr, "ppool: shutdown:", err)
	}

	report(futures, prios, pool.ThreadCount(), elapsed)
	return 0
}

// nextPrime returns the first probable prime at or above a random odd
// number of the given size, seeded by seed.
func nextPrime(ctx context.Context, seed int64, bits int) (*big.Int, error) {
	rng := rand.New(rand.NewSource(seed))
	n := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	n.SetBit(n, bits-1, 1)
	n.SetBit(n, 0, 1)

	two := big.NewInt(2)
	for i := 0; ; i++ {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if n.ProbablyPrime(20) {
			return n, nil
		}
		n.Add(n, two)
	}
}

func report(futures []*wp.Future[primeResult], prios []wp.Priority, workers int, elapsed time.Duration) {
	type class struct {
		done, failed, cancelled int
		rankSum                 int64
	}
	classes := map[wp.Priority]*class{}

	for i, fut := range futures {
		c := classes[prios[i]]
		if c == nil {
			c = &class{}
			classes[prios[i]] = c
		}
		res, err, ok := fut.TryGet()
		switch {
		case !ok, errors.Is(err, wp.ErrCancelled):
			c.cancelled++
		case err != nil:
			c.failed++
		default:
			c.done++
			c.rankSum += res.finished
		}
	}

	keys := make([]wp.Priority, 0, len(classes))
	for p := range classes {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })

	fmt.Printf("%d tasks on %d workers in %s\n", len(futures), workers, elapsed.Round(time.Millisecond))
	for _, p := range keys {
		c := classes[p]
		mean := 0.0
		if c.done > 0 {
			mean = float64(c.rankSum) / float64(c.done)
		}
		fmt.Printf("  priority %-4d done=%-4d failed=%-4d cancelled=%-4d mean completion rank=%.1f\n",
			p, c.done, c.failed, c.cancelled, mean)
	}
}
