package fswatch

import "errors"

var (
	// ErrNilHandler is returned by New when no change handler is given.
	ErrNilHandler = errors.New("fswatch: handler cannot be nil")

	// ErrAlreadyStarted is returned by Start when the watcher is running.
	ErrAlreadyStarted = errors.New("fswatch: watcher already started")

	// ErrNotStarted is returned by Stop when the watcher never started.
	ErrNotStarted = errors.New("fswatch: watcher not started")
)
