package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
)

// ShutdownMode selects how Shutdown treats tasks that are still queued.
type ShutdownMode int

const (
	// Graceful stops accepting work and lets the queue drain.
	Graceful ShutdownMode = iota

	// Immediate stops accepting work and cancels every queued task.
	// Tasks already running still complete.
	Immediate
)

func (m ShutdownMode) String() string {
	switch m {
	case Graceful:
		return "graceful"
	case Immediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// ParseShutdownMode maps "graceful" or "immediate" to a ShutdownMode.
func ParseShutdownMode(s string) (ShutdownMode, error) {
	switch s {
	case "", "graceful":
		return Graceful, nil
	case "immediate":
		return Immediate, nil
	default:
		return Graceful, fmt.Errorf("workerpool: unknown shutdown mode %q", s)
	}
}

// Options configure a worker Pool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is clamped into [1, GOMAXPROCS]. Zero or out-of-range
	// values fall back to GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Name labels the pool in logs and metrics.
	Name string `yaml:"name"`

	// PinWorkers locks every worker to an OS thread pinned to one CPU.
	PinWorkers bool `yaml:"pin_workers"`

	// Retry is the default retry policy for every task.
	Retry RetryPolicy `yaml:"retry"`

	// Context is the base context handed to tasks. Its logger
	// (see zlog.FromContext) is used for pool logging.
	Context context.Context `yaml:"-"`

	Metrics MetricsPolicy `yaml:"-"`
	Tracer  trace.Tracer  `yaml:"-"`

	// OnTaskError receives failures of tasks submitted with Go.
	OnTaskError func(error) `yaml:"-"`

	// OnInternalError receives non-task failures such as CPU pinning errors.
	OnInternalError func(error) `yaml:"-"`
}

// FillDefaults replaces zero values with defaults and clamps Workers.
func (o *Options) FillDefaults() {
	o.Workers = clampWorkers(o.Workers)
	if o.Name == "" {
		o.Name = "workerpool"
	}
	o.Retry.fillDefaults()
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	if o.Tracer == nil {
		o.Tracer = defaultTracer()
	}
}

// Validate reports every invalid field at once.
func (o *Options) Validate() error {
	var err error
	if o.Retry.Attempts < 0 {
		err = multierr.Append(err, fmt.Errorf("retry.attempts must be >= 0, got %d", o.Retry.Attempts))
	}
	if o.Retry.Initial < 0 {
		err = multierr.Append(err, fmt.Errorf("retry.initial must be >= 0, got %s", o.Retry.Initial))
	}
	if o.Retry.Max < 0 {
		err = multierr.Append(err, fmt.Errorf("retry.max must be >= 0, got %s", o.Retry.Max))
	}
	if o.Retry.Initial > 0 && o.Retry.Max > 0 && o.Retry.Max < o.Retry.Initial {
		err = multierr.Append(err, errors.New("retry.max must not be below retry.initial"))
	}
	if err != nil {
		return fmt.Errorf("workerpool: invalid options: %w", err)
	}
	return nil
}

// clampWorkers maps a requested worker count into [1, GOMAXPROCS].
func clampWorkers(n int) int {
	hw := runtime.GOMAXPROCS(0)
	if hw < 1 {
		hw = 1
	}
	if n <= 0 || n > hw {
		return hw
	}
	return n
}
