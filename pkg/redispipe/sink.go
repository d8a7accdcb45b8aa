package redispipe

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/batchkit"
)

// Pipeliner is the slice of the go-redis client the sink needs. Both
// *redis.Client and redis.UniversalClient satisfy it.
type Pipeliner interface {
	Pipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// CommandFunc queues the pipeline commands for one item. It runs once per
// item in batch order; returning an error aborts the whole pipeline before
// anything is sent.
type CommandFunc[T any] func(pipe redis.Pipeliner, item T) error

// Sink writes item batches to Redis as a single pipelined round trip.
type Sink[T any] struct {
	client Pipeliner
	cmd    CommandFunc[T]
}

// NewSink creates a sink that turns each item into pipeline commands via cmd.
func NewSink[T any](client Pipeliner, cmd CommandFunc[T]) (*Sink[T], error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if cmd == nil {
		return nil, ErrNilCommandFunc
	}
	return &Sink[T]{client: client, cmd: cmd}, nil
}

// Flush sends the whole batch in one round trip and returns the number of
// commands executed.
func (s *Sink[T]) Flush(ctx context.Context, items []T) (int, error) {
	cmds, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range items {
			if err := s.cmd(pipe, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, errors.Join(ErrPipelineFailed, err)
	}
	return len(cmds), nil
}

// NewQueue wires a sink into a batching queue: items added to the queue are
// coalesced for delay and flushed to Redis as one pipeline per batch. The
// step future resolves to the number of commands the batch executed.
func NewQueue[T any](ctx context.Context, delay time.Duration, client Pipeliner, cmd CommandFunc[T], opts ...batchkit.Option) (*batchkit.Queue[T, int], error) {
	sink, err := NewSink[T](client, cmd)
	if err != nil {
		return nil, err
	}
	return batchkit.New(ctx, delay, sink.Flush, opts...)
}
