package async

// Promise is the producer side of a Future. It is handed to whoever is
// responsible for resolving the computation, while consumers hold only the
// Future. Unlike Async, nothing runs implicitly: the owner calls Complete
// when the outcome is known.
type Promise[U any] struct {
	f *Future[U]
}

// NewPromise creates an unresolved promise and its future.
func NewPromise[U any]() *Promise[U] {
	return &Promise[U]{f: newFuture[U]()}
}

// Complete resolves the promise's future. Only the first call has any
// effect; it reports whether this call performed the resolution.
func (p *Promise[U]) Complete(result U, err error) bool {
	return p.f.complete(result, err)
}

// Future returns the consumer handle. It never returns nil.
func (p *Promise[U]) Future() *Future[U] {
	return p.f
}
