package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
)

const (
	// DefaultWorkers is the size of the worker pool.
	DefaultWorkers = 4
	// DefaultRetries is the number of extra attempts after a failed one.
	DefaultRetries = 1
	// DefaultRetryDelay is the fixed wait between attempts.
	DefaultRetryDelay = 5 * time.Second
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithWorkers sets the size of the worker pool. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithRetries sets the default retry count for nodes that do not override it.
func WithRetries(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.retries = n
		}
	}
}

// WithRetryDelay sets the default wait between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.retryDelay = d
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithRunID overrides the run ID generator.
func WithRunID(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}
