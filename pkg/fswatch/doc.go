// Package fswatch batches filesystem change notifications.
//
// Raw fsnotify events arrive one syscall at a time: a single editor save
// can produce several writes, a chmod, and a rename. The watcher absorbs
// such storms with a debounce window and collapses identical changes, so
// the handler sees one batch per burst with one entry per distinct
// (path, op) pair.
//
// # Usage
//
//	w, err := fswatch.New(func(ctx context.Context, changes []fswatch.Change) error {
//		for _, c := range changes {
//			log.Printf("%s %s", c.Op, c.Path)
//		}
//		return rebuild(ctx)
//	},
//		fswatch.WithRecursive(),
//		fswatch.WithFilter(func(path string) bool {
//			return filepath.Ext(path) == ".go"
//		}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := w.Watch("./src"); err != nil {
//		log.Fatal(err)
//	}
//
//	g, ctx := errgroup.WithContext(context.Background())
//	g.Go(w.Run(ctx))
//
// A handler error is logged and the watcher keeps running; the next burst
// dispatches as usual.
package fswatch
