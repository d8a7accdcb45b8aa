package async

import (
	"sync"
	"time"
)

// Future represents the eventual result of an asynchronous computation.
// A Future is completed exactly once; later completion attempts are ignored.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

// complete resolves the future. The first call wins; it reports whether
// this call performed the resolution.
func (f *Future[U]) complete(result U, err error) bool {
	completed := false
	f.once.Do(func() {
		f.result = result
		f.err = err
		completed = true
		close(f.done)
	})
	return completed
}

// Completed returns an already-resolved future carrying the given result
// and error. Useful as the seed of a chain of dependent computations.
func Completed[U any](result U, err error) *Future[U] {
	f := newFuture[U]()
	f.complete(result, err)
	return f
}

// Await blocks until the future resolves and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for the future to resolve, giving up after the
// timeout with ErrTimeout. The underlying computation keeps running.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// Done returns a channel closed when the future resolves, regardless of
// outcome. It lets callers join on completion without observing the result,
// typically inside a select against cancellation:
//
//	select {
//	case <-prior.Done():
//	case <-ctx.Done():
//	}
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the future has resolved, without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
