package batchkit

import "errors"

var (
	// ErrNilProcess is returned by New when no process callback is provided.
	ErrNilProcess = errors.New("batchkit: process callback cannot be nil")

	// ErrNilEquality is returned by NewDeduping when no equality function is provided.
	ErrNilEquality = errors.New("batchkit: equality function cannot be nil")

	// ErrInvalidDelay is returned by New when the debounce delay is negative.
	ErrInvalidDelay = errors.New("batchkit: debounce delay cannot be negative")

	// ErrQueueShutdown resolves processing steps aborted by the queue's
	// shutdown context. Terminal: no further batches run after it.
	ErrQueueShutdown = errors.New("batchkit: queue is shut down")

	// ErrProcessPanic wraps a panic recovered from the process callback.
	ErrProcessPanic = errors.New("batchkit: process callback panicked")
)
