package batchkit

import "log/slog"

// FaultHandler receives non-cancellation failures from the process callback.
// It reports whether the fault was handled; unhandled faults are logged by
// the queue as a fallback. Handlers run on the dispatch goroutine and should
// return quickly.
type FaultHandler func(err error) bool

// Option configures a Queue.
type Option func(*options)

type options struct {
	name    string
	logger  *slog.Logger
	tracker Tracker
	faults  FaultHandler
}

// WithName labels the queue in log records. Useful when a process runs
// several queues.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger for the queue.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracker sets the operation tracker notified about scheduled
// processing steps.
func WithTracker(tracker Tracker) Option {
	return func(o *options) {
		if tracker != nil {
			o.tracker = tracker
		}
	}
}

// WithFaultHandler sets the sink for processing failures.
func WithFaultHandler(handler FaultHandler) Option {
	return func(o *options) {
		if handler != nil {
			o.faults = handler
		}
	}
}

// Equal reports a == b. A convenience equality function for NewDeduping
// over comparable item types.
func Equal[T comparable](a, b T) bool { return a == b }
