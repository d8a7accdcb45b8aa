// Package events provides a non-blocking in-process event bus and a monitor
// that streams batch queue activity onto it.
//
// The Bus fans values out to any number of subscribers. Publishing never
// blocks: a subscriber that cannot keep up misses events (the misses are
// counted via Dropped) but stays subscribed. This makes the bus safe to call
// from latency-sensitive paths such as a queue's dispatch loop.
//
// # Usage
//
//	import (
//	    "context"
//	    "github.com/dmitrymomot/batchkit"
//	    "github.com/dmitrymomot/batchkit/pkg/events"
//	)
//
//	bus := events.NewBus[events.Event](64)
//	defer bus.Close()
//
//	sub := bus.Subscribe(ctx)
//	go func() {
//	    for ev := range sub.Events() {
//	        log.Printf("%s %s", ev.Op, ev.Phase)
//	    }
//	}()
//
//	q, err := batchkit.New(ctx, delay, process,
//	    batchkit.WithTracker(events.NewMonitor(bus)))
//
// The bus is generic; nothing restricts it to Event values. Subscriptions
// close with their context, with an explicit Close, or when the bus closes.
//
// Delivery is best-effort by design. Consumers that need an exact count of
// outstanding operations should use batchkit.IdleTracker instead of counting
// begin and end events.
package events
