package fswatch

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/batchkit"
)

// Option configures a Watcher.
type Option func(*options)

type options struct {
	debounce  time.Duration
	recursive bool
	filter    func(path string) bool
	logger    *slog.Logger
	tracker   batchkit.Tracker
}

// WithDebounce sets how long the watcher waits after the first change
// before handing the accumulated batch to the handler. Defaults to 300ms,
// which is enough to absorb editor save storms.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithRecursive makes Watch descend into subdirectories and pick up
// directories created while watching.
func WithRecursive() Option {
	return func(o *options) {
		o.recursive = true
	}
}

// WithFilter keeps only changes whose path the filter accepts.
func WithFilter(filter func(path string) bool) Option {
	return func(o *options) {
		if filter != nil {
			o.filter = filter
		}
	}
}

// WithLogger sets the logger for watch errors and lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracker registers a tracker that observes every handler dispatch.
func WithTracker(tracker batchkit.Tracker) Option {
	return func(o *options) {
		if tracker != nil {
			o.tracker = tracker
		}
	}
}

func defaultOptions() options {
	return options{
		debounce: 300 * time.Millisecond,
		logger:   slog.Default(),
	}
}
