package pgbatch

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/batchkit"
)

// Batcher is the slice of pgxpool.Pool the sink needs. *pgxpool.Pool,
// *pgx.Conn, and pgx.Tx all satisfy it.
type Batcher interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// StatementFunc queues the statements for one item. It runs once per item
// in batch order; returning an error aborts the whole batch before anything
// is sent.
type StatementFunc[T any] func(b *pgx.Batch, item T) error

// Sink writes item batches to PostgreSQL as a single batched round trip.
type Sink[T any] struct {
	db   Batcher
	stmt StatementFunc[T]
}

// NewSink creates a sink that turns each item into batch statements via stmt.
func NewSink[T any](db Batcher, stmt StatementFunc[T]) (*Sink[T], error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if stmt == nil {
		return nil, ErrNilStatementFunc
	}
	return &Sink[T]{db: db, stmt: stmt}, nil
}

// Flush sends the whole batch in one round trip and returns the total number
// of rows affected. A failing statement aborts the drain; statements queued
// after it are discarded by Close.
func (s *Sink[T]) Flush(ctx context.Context, items []T) (int64, error) {
	batch := &pgx.Batch{}
	for _, item := range items {
		if err := s.stmt(batch, item); err != nil {
			return 0, err
		}
	}
	if batch.Len() == 0 {
		return 0, nil
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	var rows int64
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return rows, errors.Join(ErrBatchFailed, err)
		}
		rows += tag.RowsAffected()
	}
	return rows, nil
}

// NewQueue wires a sink into a batching queue: items added to the queue are
// coalesced for delay and written to PostgreSQL as one batch per step. The
// step future resolves to the number of rows the batch affected.
func NewQueue[T any](ctx context.Context, delay time.Duration, db Batcher, stmt StatementFunc[T], opts ...batchkit.Option) (*batchkit.Queue[T, int64], error) {
	sink, err := NewSink[T](db, stmt)
	if err != nil {
		return nil, err
	}
	return batchkit.New(ctx, delay, sink.Flush, opts...)
}
