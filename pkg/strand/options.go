package strand

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/batchkit"
)

// Option configures an Executor.
type Option func(*options)

type options struct {
	delay   time.Duration
	name    string
	logger  *slog.Logger
	tracker batchkit.Tracker
}

// WithCoalesceDelay sets how long the executor waits after the first
// scheduled action before handing the accumulated batch to the runner.
// The default is zero: actions are handed off as soon as the runner is
// free, batching only what arrived in the meantime.
func WithCoalesceDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.delay = d
		}
	}
}

// WithName sets the executor name used in log entries.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger for action panics and lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracker registers a tracker that observes every batch handoff.
func WithTracker(tracker batchkit.Tracker) Option {
	return func(o *options) {
		if tracker != nil {
			o.tracker = tracker
		}
	}
}

func defaultOptions() options {
	return options{
		delay:  0,
		name:   "strand",
		logger: slog.Default(),
	}
}
