package mongobulk

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/batchkit"
)

// BulkWriter is the slice of mongo.Collection the sink needs.
type BulkWriter interface {
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...options.Lister[options.BulkWriteOptions]) (*mongo.BulkWriteResult, error)
}

// ModelFunc converts one item into a write model. Returning a nil model
// skips the item.
type ModelFunc[T any] func(item T) (mongo.WriteModel, error)

// Result summarizes what one flushed batch did to the collection.
type Result struct {
	Inserted int64
	Matched  int64
	Modified int64
	Upserted int64
	Deleted  int64
}

// Sink writes item batches to a MongoDB collection as one unordered bulk
// write per batch. Unordered lets the server apply independent writes in
// parallel and report every failure instead of stopping at the first.
type Sink[T any] struct {
	coll  BulkWriter
	model ModelFunc[T]
}

// NewSink creates a sink that converts items into write models via model.
func NewSink[T any](coll BulkWriter, model ModelFunc[T]) (*Sink[T], error) {
	if coll == nil {
		return nil, ErrNilCollection
	}
	if model == nil {
		return nil, ErrNilModelFunc
	}
	return &Sink[T]{coll: coll, model: model}, nil
}

// Flush bulk-writes the whole batch and returns the write counts.
func (s *Sink[T]) Flush(ctx context.Context, items []T) (Result, error) {
	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		m, err := s.model(item)
		if err != nil {
			return Result{}, err
		}
		if m != nil {
			models = append(models, m)
		}
	}
	if len(models) == 0 {
		return Result{}, nil
	}

	res, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return Result{}, errors.Join(ErrBulkWriteFailed, err)
	}
	return Result{
		Inserted: res.InsertedCount,
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Upserted: res.UpsertedCount,
		Deleted:  res.DeletedCount,
	}, nil
}

// NewQueue wires a sink into a batching queue: items added to the queue are
// coalesced for delay and written to MongoDB as one bulk write per step.
// The step future resolves to the batch's write counts.
func NewQueue[T any](ctx context.Context, delay time.Duration, coll BulkWriter, model ModelFunc[T], opts ...batchkit.Option) (*batchkit.Queue[T, Result], error) {
	sink, err := NewSink[T](coll, model)
	if err != nil {
		return nil, err
	}
	return batchkit.New(ctx, delay, sink.Flush, opts...)
}
