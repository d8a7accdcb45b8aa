// Package strand serializes work onto one dedicated goroutine.
//
// An Executor owns a single runner goroutine. Actions scheduled from any
// number of goroutines run on that runner strictly one at a time, in
// scheduling order, so they can touch shared state without locks. Bursts
// of actions are coalesced and handed to the runner as one batch, costing
// one channel synchronization per burst instead of one per action.
//
// # Usage
//
//	ctx, stop := context.WithCancel(context.Background())
//	defer stop()
//
//	exec, err := strand.New(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	var hits int // owned by the strand, no mutex needed
//	f := exec.Schedule(ctx, func(ctx context.Context) error {
//		hits++
//		return nil
//	})
//	if _, err := f.Await(); err != nil {
//		log.Printf("action failed: %v", err)
//	}
//
// Typed results go through Call:
//
//	total := strand.Call(exec, ctx, func(ctx context.Context) (int, error) {
//		return hits, nil
//	})
//	n, err := total.Await()
//
// # Cancellation and shutdown
//
// Each action carries the context it was scheduled with. If that context
// is done before the action's turn comes, the action is skipped and its
// future resolves with the context's error. When the executor's own
// context is done, actions that never ran resolve with ErrShutdown and
// later Schedule calls return already-failed futures; a batch the runner
// has already picked up still finishes.
//
// A panicking action resolves its future with ErrActionPanic and leaves
// the runner intact.
package strand
