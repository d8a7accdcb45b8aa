// Package batchkit provides a debounced batching work queue: a concurrency
// primitive that coalesces bursts of small work items into batches and
// processes them strictly one at a time.
//
// Producers call Add from any goroutine. The queue waits for a quiescence
// delay, drains everything pending into one slice, and hands it to the
// process callback. While a batch is being processed, new items accumulate
// for the next one. Batches are dispatched on a chain of futures, so they
// run in scheduling order and never concurrently, and a failing batch never
// prevents the next batch from running.
//
// Pending work is cancelable in epochs. CancelPending (or Replace) advances
// the queue's cancellation epoch: pending items are discarded, a batch
// already inside the callback observes cancellation through its context, and
// items submitted afterwards belong to the new epoch. Every epoch context is
// derived from the queue's shutdown context, so tearing down the context
// passed to New cancels everything at once, stops scheduling, and turns Add
// into a no-op.
//
// # Usage
//
//	import (
//	    "context"
//	    "time"
//
//	    "github.com/dmitrymomot/batchkit"
//	)
//
//	ctx, stop := context.WithCancel(context.Background())
//	defer stop()
//
//	q, err := batchkit.New(ctx, 250*time.Millisecond,
//	    func(ctx context.Context, paths []string) (int, error) {
//	        return reindex(ctx, paths)
//	    })
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	q.Add("a/main.go")
//	q.Add("a/util.go", "b/b.go") // same batch: submitted within the delay
//
//	n, err := q.CurrentBatch().Await()
//
// Deduplication keeps at most one live pending entry per equivalence class,
// which suits queues fed by repetitive notifications:
//
//	q, err := batchkit.NewDeduping(ctx, 250*time.Millisecond,
//	    batchkit.Equal[string], process)
//
// # Waiting for results
//
// CurrentBatch returns the future of the most recently scheduled step.
// Awaiting it observes that step's outcome: the callback's result, the zero
// result when the step had nothing to do or its batch was canceled, or an
// error when the callback failed or the queue shut down. To wait until all
// background activity has settled regardless of outcome, register an
// IdleTracker through WithTracker and call WaitIdle.
//
// # Failure semantics
//
// A callback error resolves only that step; the chain continues. Errors are
// delivered to the WithFaultHandler sink when one is set, otherwise logged.
// A callback panic is recovered and surfaces as ErrProcessPanic through the
// same path. Cancellation is never reported as a fault: a batch canceled by
// its epoch collapses to the zero result, and a batch interrupted by
// shutdown resolves with ErrQueueShutdown.
//
// The package also exports the building blocks the queue is made of:
// CancelSeries for chained cancellation scopes and Tracker/IdleTracker for
// quiescence tracking. Higher-level consumers live in pkg/strand (actions
// serialized onto one goroutine) and pkg/fswatch (debounced filesystem
// notifications); pkg/redispipe, pkg/pgbatch, pkg/mongobulk, pkg/searchbulk,
// pkg/mailbatch and pkg/objstore adapt common backends as batch flush
// targets.
package batchkit
