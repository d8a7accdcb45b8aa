package fswatch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/batchkit"
)

// Op classifies a filesystem change.
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// String returns the op name for logs.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	case OpChmod:
		return "chmod"
	default:
		return "unknown"
	}
}

// Change is one observed filesystem mutation. It is comparable, so a burst
// of identical changes to the same path collapses into a single entry
// before the handler runs.
type Change struct {
	Path string
	Op   Op
}

// Handler receives one debounced, deduplicated batch of changes. Returning
// an error does not stop the watcher; the error is reported through the
// watcher's logger.
type Handler func(ctx context.Context, changes []Change) error

// Watcher turns raw fsnotify events into debounced change batches. Editor
// save storms, build outputs, and repeated writes to the same file arrive
// at the handler as one batch with one entry per distinct change.
type Watcher struct {
	handler   Handler
	debounce  time.Duration
	recursive bool
	filter    func(path string) bool
	logger    *slog.Logger
	tracker   batchkit.Tracker

	fsn *fsnotify.Watcher

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	queue  *batchkit.Queue[Change, struct{}]
}

// New creates a watcher that feeds change batches to handler. Call Watch to
// register paths and Start (or Run) to begin observing.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	fsn, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fswatch: create watcher: %w", err)
	}

	return &Watcher{
		handler:   handler,
		debounce:  options.debounce,
		recursive: options.recursive,
		filter:    options.filter,
		logger:    options.logger,
		tracker:   options.tracker,
		fsn:       fsn,
	}, nil
}

// Watch registers a path. For a directory with the recursive option set,
// every subdirectory is registered as well.
func (w *Watcher) Watch(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("fswatch: %w", err)
	}

	if info.IsDir() && w.recursive {
		return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if err := w.fsn.Add(p); err != nil {
				return fmt.Errorf("fswatch: watch %s: %w", p, err)
			}
			return nil
		})
	}

	if err := w.fsn.Add(path); err != nil {
		return fmt.Errorf("fswatch: watch %s: %w", path, err)
	}
	return nil
}

// Start begins observing in the background. The ctx governs the watcher's
// lifetime: once it is done no further batches are dispatched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return ErrAlreadyStarted
	}
	if ctx == nil {
		ctx = context.Background()
	}
	w.ctx, w.cancel = context.WithCancel(ctx)

	queueOpts := []batchkit.Option{
		batchkit.WithName("fswatch"),
		batchkit.WithLogger(w.logger),
	}
	if w.tracker != nil {
		queueOpts = append(queueOpts, batchkit.WithTracker(w.tracker))
	}
	queue, err := batchkit.NewDeduping(w.ctx, w.debounce, batchkit.Equal[Change], w.flush, queueOpts...)
	if err != nil {
		w.cancel()
		w.cancel = nil
		return err
	}
	w.queue = queue

	w.wg.Add(1)
	go w.loop()

	w.logger.Info("file watcher started",
		slog.Duration("debounce", w.debounce),
		slog.Bool("recursive", w.recursive))
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit. A batch
// already inside the handler finishes; pending changes are discarded. The
// watcher cannot be restarted afterwards.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return ErrNotStarted
	}
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	err := w.fsn.Close()
	w.wg.Wait()

	w.logger.Info("file watcher stopped")
	return err
}

// Run starts the watcher and returns a function suitable for errgroup.
func (w *Watcher) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return w.Stop()
	}
}

// flush is the queue's batch callback.
func (w *Watcher) flush(ctx context.Context, changes []Change) (struct{}, error) {
	return struct{}{}, w.handler(ctx, changes)
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case evt, ok := <-w.fsn.Events:
			if !ok {
				return
			}
			w.observe(evt)
		case err, ok := <-w.fsn.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) observe(evt fsnotify.Event) {
	// New directories must be registered before their contents change.
	if w.recursive && evt.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if err := w.fsn.Add(evt.Name); err != nil {
				w.logger.Error("watch new directory",
					slog.String("path", evt.Name),
					slog.String("error", err.Error()))
			}
		}
	}

	if w.filter != nil && !w.filter(evt.Name) {
		return
	}

	op, ok := mapOp(evt.Op)
	if !ok {
		return
	}
	w.queue.Add(Change{Path: evt.Name, Op: op})
}

func mapOp(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Chmod):
		return OpChmod, true
	default:
		return 0, false
	}
}
