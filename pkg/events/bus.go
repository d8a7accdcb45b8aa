package events

import (
	"context"
	"sync"
	"sync/atomic"
)

// Bus fans events out to all subscribers without ever blocking the
// publisher. A subscriber whose buffer is full misses the event; the miss is
// counted but the subscription stays alive. All methods are safe for
// concurrent use.
type Bus[T any] struct {
	subscriptions map[*Subscription[T]]struct{}
	buffer        int
	closed        bool
	dropped       atomic.Int64
	mu            sync.RWMutex
	cleanupWg     sync.WaitGroup
}

// NewBus creates an in-memory event bus. The buffer parameter sets each
// subscriber's channel capacity; a minimum of 1 is enforced so publishing
// stays non-blocking.
func NewBus[T any](buffer int) *Bus[T] {
	return &Bus[T]{
		subscriptions: make(map[*Subscription[T]]struct{}),
		buffer:        max(buffer, 1),
	}
}

// Subscribe registers a new subscriber. The subscription is closed
// automatically when ctx is done. Subscribing to a closed bus returns an
// already-closed subscription.
func (b *Bus[T]) Subscribe(ctx context.Context) *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscription[T](b.buffer)
	if b.closed {
		sub.Close()
		return sub
	}
	b.subscriptions[sub] = struct{}{}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			<-ctx.Done()
			b.unsubscribe(sub)
		}()
	}

	return sub
}

// Publish delivers ev to every subscriber that has buffer space. It never
// blocks and has no effect on a closed bus.
func (b *Bus[T]) Publish(ev T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for sub := range b.subscriptions {
		if !sub.send(ev) {
			b.dropped.Add(1)
		}
	}
}

// Dropped reports how many deliveries were skipped because a subscriber's
// buffer was full or closed.
func (b *Bus[T]) Dropped() int64 {
	return b.dropped.Load()
}

// Close shuts the bus down and closes every subscription. Safe to call more
// than once.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for sub := range b.subscriptions {
		sub.Close()
	}
	clear(b.subscriptions)
	b.mu.Unlock()

	// Settle context-cleanup goroutines so Close has no stragglers racing
	// the subscription map.
	b.cleanupWg.Wait()
}

func (b *Bus[T]) unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscriptions, sub)
	sub.Close()
}

// Subscription is one subscriber's view of the bus. Receive events from
// Events; the channel closes when the subscription does.
type Subscription[T any] struct {
	ch     chan T
	mu     sync.Mutex
	closed bool
}

func newSubscription[T any](buffer int) *Subscription[T] {
	return &Subscription[T]{ch: make(chan T, buffer)}
}

// Events returns the receive channel.
func (s *Subscription[T]) Events() <-chan T {
	return s.ch
}

// Close stops delivery and closes the Events channel. Idempotent.
func (s *Subscription[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

func (s *Subscription[T]) send(ev T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}
