package strand

import "errors"

var (
	// ErrNilAction is returned through the future when Schedule is called
	// with a nil action.
	ErrNilAction = errors.New("strand: action cannot be nil")

	// ErrShutdown resolves the futures of actions that never ran because
	// the executor shut down.
	ErrShutdown = errors.New("strand: executor is shut down")

	// ErrActionPanic wraps a panic recovered from an action.
	ErrActionPanic = errors.New("strand: action panicked")
)
