package batchkit

import (
	"context"
	"sync"
)

// Tracker observes outstanding asynchronous operations. Begin is called when
// an operation is scheduled; the returned function is called exactly once
// when that operation settles, whatever the outcome. Implementations must be
// safe for concurrent use and must never block: trackers are advisory and
// have no influence on dispatch.
type Tracker interface {
	Begin(op string) (done func())
}

// NopTracker ignores all operations. It is the default.
type NopTracker struct{}

func (NopTracker) Begin(string) func() { return func() {} }

// IdleTracker counts outstanding operations and lets callers wait for
// quiescence. The zero value is ready to use. Useful in tests and in hosts
// that need to know when background batching has settled.
type IdleTracker struct {
	mu      sync.Mutex
	pending int
	idle    chan struct{}
}

// Begin registers one outstanding operation. The returned function is
// idempotent.
func (t *IdleTracker) Begin(string) func() {
	t.mu.Lock()
	t.pending++
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			t.pending--
			if t.pending == 0 && t.idle != nil {
				close(t.idle)
				t.idle = nil
			}
			t.mu.Unlock()
		})
	}
}

// Pending reports the number of operations currently outstanding.
func (t *IdleTracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// WaitIdle blocks until no operations are outstanding or ctx is done.
// Quiescence is momentary: new operations may begin immediately after it
// returns.
func (t *IdleTracker) WaitIdle(ctx context.Context) error {
	for {
		t.mu.Lock()
		if t.pending == 0 {
			t.mu.Unlock()
			return nil
		}
		if t.idle == nil {
			t.idle = make(chan struct{})
		}
		idle := t.idle
		t.mu.Unlock()

		select {
		case <-idle:
			// Re-check: work may have started again before we woke.
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
