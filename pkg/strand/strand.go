package strand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/batchkit"
	"github.com/dmitrymomot/batchkit/pkg/async"
)

// Action is a unit of work executed on the strand. It receives the context
// it was scheduled with.
type Action func(ctx context.Context) error

type task struct {
	ctx     context.Context
	action  Action
	promise *async.Promise[struct{}]
}

// handoff carries one drained batch to the runner goroutine. done is closed
// after every task in the batch has been settled.
type handoff struct {
	tasks []*task
	done  chan struct{}
}

// Executor runs scheduled actions strictly one at a time on a single
// dedicated goroutine, in scheduling order. Actions scheduled from many
// goroutines are coalesced into batches so the runner is woken once per
// burst rather than once per action.
//
// The context passed to New governs the executor's lifetime: once it is
// done, actions that never ran have their futures resolved with
// ErrShutdown and Schedule returns already-failed futures.
type Executor struct {
	queue    *batchkit.Queue[*task, struct{}]
	shutdown context.Context
	jobs     chan *handoff
	logger   *slog.Logger
	name     string

	runnerWg sync.WaitGroup

	mu          sync.Mutex
	reaped      bool
	outstanding map[*task]struct{}
}

// New creates an executor and starts its runner goroutine. The ctx is the
// executor's shutdown context; nil means the executor runs for the life of
// the process.
func New(ctx context.Context, opts ...Option) (*Executor, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	e := &Executor{
		shutdown:    ctx,
		jobs:        make(chan *handoff),
		logger:      options.logger,
		name:        options.name,
		outstanding: make(map[*task]struct{}),
	}

	queueOpts := []batchkit.Option{
		batchkit.WithName(options.name),
		batchkit.WithLogger(options.logger),
	}
	if options.tracker != nil {
		queueOpts = append(queueOpts, batchkit.WithTracker(options.tracker))
	}
	queue, err := batchkit.New(ctx, options.delay, e.dispatch, queueOpts...)
	if err != nil {
		return nil, err
	}
	e.queue = queue

	e.runnerWg.Add(1)
	go e.run()
	go e.reapOnShutdown()

	return e, nil
}

// Schedule submits an action. The returned future resolves with the
// action's error once it has run, with the action's context error if that
// context was done before the action's turn came, or with ErrShutdown if
// the executor shut down first. The future always resolves.
func (e *Executor) Schedule(ctx context.Context, action Action) *async.Future[struct{}] {
	p := async.NewPromise[struct{}]()
	if action == nil {
		p.Complete(struct{}{}, ErrNilAction)
		return p.Future()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	t := &task{ctx: ctx, action: action, promise: p}

	e.mu.Lock()
	if e.reaped || e.shutdown.Err() != nil {
		e.mu.Unlock()
		p.Complete(struct{}{}, e.shutdownErr())
		return p.Future()
	}
	e.outstanding[t] = struct{}{}
	e.mu.Unlock()

	e.queue.Add(t)
	return p.Future()
}

// Call schedules fn on the executor and exposes its typed result as a
// future. It is a free function because methods cannot introduce type
// parameters.
func Call[R any](e *Executor, ctx context.Context, fn func(ctx context.Context) (R, error)) *async.Future[R] {
	p := async.NewPromise[R]()
	if fn == nil {
		var zero R
		p.Complete(zero, ErrNilAction)
		return p.Future()
	}

	scheduled := e.Schedule(ctx, func(ctx context.Context) error {
		res, err := fn(ctx)
		p.Complete(res, err)
		return err
	})

	// If the action never runs the inner Complete never fires; relay the
	// scheduling failure instead.
	go func() {
		if _, err := scheduled.Await(); err != nil {
			var zero R
			p.Complete(zero, err)
		}
	}()

	return p.Future()
}

// dispatch is the executor's batch callback: one channel handoff to the
// runner per drained batch, then wait for the batch to finish. The runner
// never abandons a batch it has received, so waiting on done cannot hang.
func (e *Executor) dispatch(ctx context.Context, tasks []*task) (struct{}, error) {
	h := &handoff{tasks: tasks, done: make(chan struct{})}

	select {
	case e.jobs <- h:
	case <-e.shutdown.Done():
		err := e.shutdownErr()
		for _, t := range tasks {
			e.settle(t, err)
		}
		return struct{}{}, context.Canceled
	}

	<-h.done
	return struct{}{}, nil
}

func (e *Executor) run() {
	defer e.runnerWg.Done()
	for {
		select {
		case <-e.shutdown.Done():
			return
		case h := <-e.jobs:
			e.runBatch(h.tasks)
			close(h.done)
		}
	}
}

func (e *Executor) runBatch(tasks []*task) {
	for _, t := range tasks {
		if err := t.ctx.Err(); err != nil {
			e.settle(t, err)
			continue
		}
		e.settle(t, e.runOne(t))
	}
}

// runOne executes one action, converting a panic into an error so a broken
// action cannot take down the runner.
func (e *Executor) runOne(t *task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrActionPanic, r)
			e.logger.Error("action panicked",
				slog.String("strand", e.name),
				slog.Any("panic", r))
		}
	}()
	return t.action(t.ctx)
}

func (e *Executor) settle(t *task, err error) {
	t.promise.Complete(struct{}{}, err)
	e.mu.Lock()
	delete(e.outstanding, t)
	e.mu.Unlock()
}

// reapOnShutdown resolves the futures of actions that were scheduled but
// never reached the runner. It waits for the runner to exit first so an
// in-flight batch settles with real results rather than shutdown errors.
func (e *Executor) reapOnShutdown() {
	<-e.shutdown.Done()
	e.runnerWg.Wait()

	err := e.shutdownErr()

	e.mu.Lock()
	e.reaped = true
	leftovers := make([]*task, 0, len(e.outstanding))
	for t := range e.outstanding {
		leftovers = append(leftovers, t)
	}
	e.mu.Unlock()

	for _, t := range leftovers {
		e.settle(t, err)
	}
}

func (e *Executor) shutdownErr() error {
	return errors.Join(ErrShutdown, context.Cause(e.shutdown))
}
