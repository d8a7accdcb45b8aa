package batchkit

import (
	"context"
	"sync"
)

// CancelSeries issues a chain of cancellation scopes tied to one root
// context. At most one issued context is live at a time: Next cancels the
// previously issued context before deriving a fresh one from the root, and
// canceling the root cancels whichever issued context is current.
//
// The queue keeps one series rooted at its shutdown context and advances it
// whenever pending work is canceled, so every work item carries a context
// that dies either with its own epoch or with the queue as a whole.
type CancelSeries struct {
	mu     sync.Mutex
	root   context.Context
	cancel context.CancelFunc
}

// NewCancelSeries creates a series rooted at the given context.
// A nil root means context.Background.
func NewCancelSeries(root context.Context) *CancelSeries {
	if root == nil {
		root = context.Background()
	}
	return &CancelSeries{root: root}
}

// Next cancels the current context, if any, and issues a fresh one derived
// from the root. Safe for concurrent use.
func (s *CancelSeries) Next() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(s.root)
	s.cancel = cancel
	return ctx
}

// Stop cancels the current context and releases it. The series stays
// usable: a later Next issues a fresh context.
func (s *CancelSeries) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
