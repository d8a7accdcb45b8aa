// Package async provides generic futures and promises for coordinating
// asynchronous computations.
//
// The package is centred around the generic type Future that represents the
// eventual result of an asynchronous operation. A Future is obtained either
// from Async, which starts the supplied function in its own goroutine, or
// from a Promise created with NewPromise, whose owner resolves it explicitly
// with Complete. Completed builds an already-resolved Future, which is handy
// as the seed of a chain of dependent steps.
//
// Consumers wait with Await, bound the wait with AwaitWithTimeout, poll with
// IsComplete, or join on the Done channel when they only care that the
// computation settled, not how:
//
//	select {
//	case <-prior.Done():
//	case <-ctx.Done():
//	}
//
// Joining on Done without reading the result is the building block for
// serialized pipelines where one step must not start before the previous one
// settled, yet must not fail just because the previous one did.
//
// The helpers WaitAll and WaitAny coordinate several futures at once, either
// collecting every result or returning the first one to resolve.
//
// # Usage
//
//	import (
//	    "context"
//	    "time"
//	    "github.com/dmitrymomot/batchkit/pkg/async"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    future := async.Async(ctx, 42, func(_ context.Context, v int) (string, error) {
//	        time.Sleep(100 * time.Millisecond)
//	        return fmt.Sprintf("value is %d", v), nil
//	    })
//
//	    // do other work …
//	    res, err := future.Await()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res)
//	}
//
// Producer-resolved futures:
//
//	p := async.NewPromise[int]()
//	go func() { p.Complete(compute()) }()
//	v, err := p.Future().Await()
//
// # Error Handling
//
// Functions return the error produced by the user callback, the context
// error when the computation was canceled before it started, or ErrTimeout
// from AwaitWithTimeout.
//
// # Performance Considerations
//
// Futures are lightweight wrappers around a channel and a sync.Once. The
// overhead is minimal, but avoid spawning an unbounded number of goroutines
// when the workload is better served by a worker pool.
package async
