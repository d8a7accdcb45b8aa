package async

import (
	"context"
)

// Async executes fn in its own goroutine and returns a Future resolving to
// its result. If ctx is already done when the goroutine starts, fn is never
// invoked and the future resolves with the context error.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		// Early exit prevents doing work when the context is pre-canceled.
		select {
		case <-ctx.Done():
			var zero U
			f.complete(zero, ctx.Err())
			return
		default:
		}

		f.complete(fn(ctx, param))
	}()

	return f
}

// WaitAll waits for every future to resolve and returns their results in
// order. It stops at the first error, returning the results collected so far.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// WaitAny waits for the first future to resolve and returns its index,
// result, and error. One goroutine is spawned per future; all of them
// finish naturally once their futures resolve.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	if len(futures) == 0 {
		var zero U
		return -1, zero, ErrNoFutures
	}

	type outcome struct {
		index  int
		result U
		err    error
	}
	first := make(chan outcome, 1)

	for i, future := range futures {
		go func(index int, f *Future[U]) {
			result, err := f.Await()
			select {
			case first <- outcome{index, result, err}:
			default:
				// A sibling future already won.
			}
		}(i, future)
	}

	res := <-first
	return res.index, res.result, res.err
}
