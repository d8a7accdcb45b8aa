package redispipe_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/batchkit/pkg/redispipe"
)

// fakePipeliner queues commands on a real go-redis pipeline without ever
// dialing, then reports how many commands each flush would have sent.
type fakePipeliner struct {
	client  *redis.Client
	execErr error

	mu    sync.Mutex
	calls int
	lens  []int
}

func newFakePipeliner() *fakePipeliner {
	return &fakePipeliner{client: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})}
}

func (f *fakePipeliner) Pipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	pipe := f.client.Pipeline()
	if err := fn(pipe); err != nil {
		return nil, err
	}
	if f.execErr != nil {
		return nil, f.execErr
	}

	f.mu.Lock()
	f.calls++
	f.lens = append(f.lens, pipe.Len())
	f.mu.Unlock()

	return make([]redis.Cmder, pipe.Len()), nil
}

func (f *fakePipeliner) flushes() (int, []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, append([]int(nil), f.lens...)
}

func TestNewSinkValidation(t *testing.T) {
	t.Parallel()

	_, err := redispipe.NewSink[string](nil, func(pipe redis.Pipeliner, item string) error { return nil })
	require.ErrorIs(t, err, redispipe.ErrNilClient)

	_, err = redispipe.NewSink[string](newFakePipeliner(), nil)
	require.ErrorIs(t, err, redispipe.ErrNilCommandFunc)
}

func TestFlushPipelinesAllItems(t *testing.T) {
	t.Parallel()

	fake := newFakePipeliner()

	var mu sync.Mutex
	var seen []string
	sink, err := redispipe.NewSink(fake, func(pipe redis.Pipeliner, item string) error {
		mu.Lock()
		seen = append(seen, item)
		mu.Unlock()
		pipe.Incr(context.Background(), "hits:"+item)
		return nil
	})
	require.NoError(t, err)

	n, err := sink.Flush(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"a", "b", "c"}, seen, "items are queued in batch order")

	calls, lens := fake.flushes()
	assert.Equal(t, 1, calls, "one round trip per batch")
	assert.Equal(t, []int{3}, lens)
}

func TestFlushCommandErrorAbortsPipeline(t *testing.T) {
	t.Parallel()

	fake := newFakePipeliner()
	boom := errors.New("unserializable item")

	sink, err := redispipe.NewSink(fake, func(pipe redis.Pipeliner, item string) error {
		if item == "bad" {
			return boom
		}
		pipe.Incr(context.Background(), item)
		return nil
	})
	require.NoError(t, err)

	_, err = sink.Flush(context.Background(), []string{"ok", "bad", "never"})
	require.ErrorIs(t, err, boom)

	calls, _ := fake.flushes()
	assert.Zero(t, calls, "nothing is sent when a command func fails")
}

func TestFlushExecError(t *testing.T) {
	t.Parallel()

	fake := newFakePipeliner()
	fake.execErr = errors.New("connection reset")

	sink, err := redispipe.NewSink(fake, func(pipe redis.Pipeliner, item int) error {
		pipe.Incr(context.Background(), "n")
		return nil
	})
	require.NoError(t, err)

	_, err = sink.Flush(context.Background(), []int{1, 2})
	require.ErrorIs(t, err, redispipe.ErrPipelineFailed)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestQueueFlushesBatches(t *testing.T) {
	t.Parallel()

	fake := newFakePipeliner()

	queue, err := redispipe.NewQueue(context.Background(), 50*time.Millisecond, fake,
		func(pipe redis.Pipeliner, item string) error {
			pipe.Incr(context.Background(), "hits:"+item)
			return nil
		})
	require.NoError(t, err)

	queue.Add("home", "pricing", "docs")

	n, err := queue.CurrentBatch().AwaitWithTimeout(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	calls, lens := fake.flushes()
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int{3}, lens)
}

func TestNewQueueValidation(t *testing.T) {
	t.Parallel()

	_, err := redispipe.NewQueue[string](context.Background(), 0, nil,
		func(pipe redis.Pipeliner, item string) error { return nil })
	require.ErrorIs(t, err, redispipe.ErrNilClient)
}
