package workerpool

import (
	"time"
)

const (
	defaultAttempts     = 1
	defaultInitialRetry = 200 * time.Millisecond
	defaultMaxRetry     = 5 * time.Second
)

// RetryPolicy describes how many times and how often a failing task is retried.
// Zero values are treated as "use pool defaults".
type RetryPolicy struct {
	// Attempts is the maximum number of tries for a task. 1 disables retries.
	Attempts int `yaml:"attempts"`

	// Initial is the first backoff duration.
	Initial time.Duration `yaml:"initial"`

	// Max is the cap for backoff duration.
	Max time.Duration `yaml:"max"`
}

// GetDefaultRP returns a pointer to the default retry policy used by the pool.
func GetDefaultRP() *RetryPolicy {
	rp := RetryPolicy{
		Attempts: defaultAttempts,
		Initial:  defaultInitialRetry,
		Max:      defaultMaxRetry,
	}
	return &rp
}

func (rp *RetryPolicy) fillDefaults() {
	if rp.Attempts <= 0 {
		rp.Attempts = defaultAttempts
	}
	if rp.Initial <= 0 {
		rp.Initial = defaultInitialRetry
	}
	if rp.Max <= 0 {
		rp.Max = defaultMaxRetry
	}
}

// merge overrides the non-zero fields of base with those of rp.
func (rp *RetryPolicy) merge(base RetryPolicy) RetryPolicy {
	if rp == nil {
		return base
	}
	if rp.Attempts > 0 {
		base.Attempts = rp.Attempts
	}
	if rp.Initial > 0 {
		base.Initial = rp.Initial
	}
	if rp.Max > 0 {
		base.Max = rp.Max
	}
	return base
}
