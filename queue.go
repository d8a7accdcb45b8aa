package batchkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/batchkit/pkg/async"
)

// ProcessFunc consumes one drained batch. Items arrive in submission order.
// The context is the batch's cancellation scope: it is canceled when the
// pending work the batch was drained from is canceled, or when the queue
// shuts down. Implementations should honor it for long-running work.
type ProcessFunc[T, R any] func(ctx context.Context, items []T) (R, error)

// workItem carries a payload together with the cancellation context that was
// current when it was submitted.
type workItem[T any] struct {
	value T
	ctx   context.Context
}

// Queue coalesces bursts of work items into batches. Producers call Add from
// any goroutine; after a debounce delay the pending items are drained as one
// batch and handed to the process callback. Batches run strictly one at a
// time, in scheduling order, on an internal chain of futures: a failed batch
// never prevents the next one from running.
//
// The queue has no destructor. Its lifetime is governed entirely by the
// context passed to New: once that context is done, Add becomes a no-op and
// the chain terminates.
type Queue[T, R any] struct {
	delay   time.Duration
	process ProcessFunc[T, R]
	equal   func(a, b T) bool

	id      uuid.UUID
	name    string
	op      string
	logger  *slog.Logger
	tracker Tracker
	faults  FaultHandler

	shutdown context.Context
	series   *CancelSeries

	mu        sync.Mutex
	pending   []workItem[T]
	batchCtx  context.Context
	scheduled bool
	tail      *async.Future[R]
}

// New creates a queue that debounces work by delay and processes drained
// batches with process. The ctx is the queue's shutdown context; nil means
// the queue never shuts down. A zero delay dispatches as soon as the
// previous step has settled, which still coalesces items submitted in one
// burst.
func New[T, R any](ctx context.Context, delay time.Duration, process ProcessFunc[T, R], opts ...Option) (*Queue[T, R], error) {
	return newQueue[T, R](ctx, delay, nil, process, opts)
}

// NewDeduping creates a queue that additionally deduplicates pending work:
// an item equal to one already pending is dropped, so at most one live entry
// per equivalence class awaits dispatch. The first submission keeps its
// position and its cancellation scope. Equality is checked by linear scan,
// which suits the burst sizes this queue is built for.
func NewDeduping[T, R any](ctx context.Context, delay time.Duration, equal func(a, b T) bool, process ProcessFunc[T, R], opts ...Option) (*Queue[T, R], error) {
	if equal == nil {
		return nil, ErrNilEquality
	}
	return newQueue[T, R](ctx, delay, equal, process, opts)
}

func newQueue[T, R any](ctx context.Context, delay time.Duration, equal func(a, b T) bool, process ProcessFunc[T, R], opts []Option) (*Queue[T, R], error) {
	if process == nil {
		return nil, ErrNilProcess
	}
	if delay < 0 {
		return nil, ErrInvalidDelay
	}
	if ctx == nil {
		ctx = context.Background()
	}

	options := &options{
		logger:  slog.Default(),
		tracker: NopTracker{},
	}
	for _, opt := range opts {
		opt(options)
	}

	op := options.name
	if op == "" {
		op = "batch"
	}

	var zero R
	q := &Queue[T, R]{
		delay:    delay,
		process:  process,
		equal:    equal,
		id:       uuid.New(),
		name:     options.name,
		op:       op,
		logger:   options.logger,
		tracker:  options.tracker,
		faults:   options.faults,
		shutdown: ctx,
		series:   NewCancelSeries(ctx),
		tail:     async.Completed(zero, nil),
	}
	q.batchCtx = q.series.Next()

	return q, nil
}

// Add appends items to the pending batch. Safe for concurrent use; never
// blocks on batch processing. After shutdown it is a silent no-op. Calling
// it with no items does nothing.
func (q *Queue[T, R]) Add(items ...T) {
	q.add(items, false)
}

// Replace cancels all pending work and then appends items, atomically. Work
// already inside the process callback observes cancellation through its
// batch context. Equivalent to CancelPending followed by Add, under one lock
// acquisition.
func (q *Queue[T, R]) Replace(items ...T) {
	q.add(items, true)
}

func (q *Queue[T, R]) add(items []T, cancelPending bool) {
	if q.shutdown.Err() != nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if cancelPending {
		q.cancelPendingLocked()
	}
	if len(items) == 0 {
		return
	}

	for _, v := range items {
		q.appendLocked(v)
	}

	if !q.scheduled {
		q.scheduled = true
		q.tail = q.scheduleLocked(q.tail)
	}
}

func (q *Queue[T, R]) appendLocked(v T) {
	if q.equal != nil {
		for _, it := range q.pending {
			if q.equal(it.value, v) {
				return
			}
		}
	}
	q.pending = append(q.pending, workItem[T]{value: v, ctx: q.batchCtx})
}

// CancelPending discards all pending work by advancing the cancellation
// epoch. A batch currently inside the process callback observes the
// cancellation through its context. Items submitted afterwards belong to the
// new epoch, including items equal to ones just discarded.
func (q *Queue[T, R]) CancelPending() {
	if q.shutdown.Err() != nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.cancelPendingLocked()
}

func (q *Queue[T, R]) cancelPendingLocked() {
	q.batchCtx = q.series.Next()
	q.pending = nil
}

// CurrentBatch returns the future of the most recently scheduled processing
// step. It never returns nil: a fresh queue returns an already-resolved
// future carrying the zero R. The future resolves to the step's result, to
// the zero R when the step found nothing to process or its batch was
// canceled, or to an error when processing failed or the queue shut down.
// Non-blocking; does not schedule work.
func (q *Queue[T, R]) CurrentBatch() *async.Future[R] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tail
}

// scheduleLocked chains one processing step onto prior. The caller holds
// q.mu. The step resolves its future on every path, including shutdown and
// callback panics.
func (q *Queue[T, R]) scheduleLocked(prior *async.Future[R]) *async.Future[R] {
	done := q.tracker.Begin(q.op)
	p := async.NewPromise[R]()

	go func() {
		defer done()
		p.Complete(q.runStep(prior))
	}()

	return p.Future()
}

func (q *Queue[T, R]) runStep(prior *async.Future[R]) (R, error) {
	var zero R

	// Settle the prior step without observing its outcome: one poisoned
	// batch must not break the chain.
	select {
	case <-prior.Done():
	case <-q.shutdown.Done():
		return zero, q.shutdownErr()
	}

	if q.shutdown.Err() != nil {
		return zero, q.shutdownErr()
	}

	// Debounce: let the burst accumulate before draining.
	if q.delay > 0 {
		timer := time.NewTimer(q.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-q.shutdown.Done():
			return zero, q.shutdownErr()
		}
	}

	items, batchCtx := q.drain()
	if len(items) == 0 {
		return zero, nil
	}

	start := time.Now()
	res, err := q.safeProcess(batchCtx, items)

	switch {
	case err == nil:
		q.logger.Debug("batch processed",
			slog.String("queue_id", q.id.String()),
			slog.String("queue", q.name),
			slog.Int("batch_size", len(items)),
			slog.Duration("duration", time.Since(start)))
		return res, nil

	case q.shutdown.Err() != nil && errors.Is(err, context.Canceled):
		// Shutdown reached into the running batch; terminal for the chain.
		return zero, q.shutdownErr()

	case batchCtx.Err() != nil && errors.Is(err, context.Canceled):
		// The batch was canceled out from under the callback. The chain
		// continues as if the batch had been empty.
		q.logger.Debug("batch canceled",
			slog.String("queue_id", q.id.String()),
			slog.String("queue", q.name),
			slog.Int("batch_size", len(items)))
		return zero, nil

	default:
		q.reportFault(err, len(items))
		return zero, err
	}
}

// drain takes every pending item that is still live. Items whose epoch was
// canceled before dispatch are dropped silently. All survivors must share
// one epoch context; anything else is an epoch bookkeeping bug.
func (q *Queue[T, R]) drain() ([]T, context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// From here on a racing Add schedules a fresh step chained onto the
	// current one.
	q.scheduled = false

	var (
		items    []T
		batchCtx context.Context
	)
	for _, it := range q.pending {
		if it.ctx.Err() != nil {
			continue
		}
		switch {
		case batchCtx == nil:
			batchCtx = it.ctx
		case batchCtx != it.ctx:
			panic("batchkit: drained batch spans multiple cancellation epochs")
		}
		items = append(items, it.value)
	}
	q.pending = nil

	if batchCtx == nil {
		batchCtx = q.batchCtx
	}
	return items, batchCtx
}

func (q *Queue[T, R]) safeProcess(ctx context.Context, items []T) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProcessPanic, r)
		}
	}()
	return q.process(ctx, items)
}

func (q *Queue[T, R]) reportFault(err error, batchSize int) {
	if q.faults != nil && q.faults(err) {
		return
	}
	q.logger.Error("batch processing failed",
		slog.String("queue_id", q.id.String()),
		slog.String("queue", q.name),
		slog.Int("batch_size", batchSize),
		slog.String("error", err.Error()))
}

func (q *Queue[T, R]) shutdownErr() error {
	return errors.Join(ErrQueueShutdown, context.Cause(q.shutdown))
}
