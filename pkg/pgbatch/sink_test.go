package pgbatch_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/batchkit/pkg/pgbatch"
)

type fakeResults struct {
	failAt int // index of the Exec call that fails, -1 for never
	calls  int
	closed bool
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) {
	i := r.calls
	r.calls++
	if r.failAt >= 0 && i == r.failAt {
		return pgconn.CommandTag{}, errors.New("deadlock detected")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not implemented") }
func (r *fakeResults) QueryRow() pgx.Row        { return nil }
func (r *fakeResults) Close() error             { r.closed = true; return nil }

type fakeDB struct {
	failAt int

	mu      sync.Mutex
	batches []int
	last    *fakeResults
}

func newFakeDB() *fakeDB {
	return &fakeDB{failAt: -1}
}

func (db *fakeDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	r := &fakeResults{failAt: db.failAt}
	db.mu.Lock()
	db.batches = append(db.batches, b.Len())
	db.last = r
	db.mu.Unlock()
	return r
}

func (db *fakeDB) sent() []int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]int(nil), db.batches...)
}

func TestNewSinkValidation(t *testing.T) {
	t.Parallel()

	_, err := pgbatch.NewSink[string](nil, func(b *pgx.Batch, item string) error { return nil })
	require.ErrorIs(t, err, pgbatch.ErrNilDB)

	_, err = pgbatch.NewSink[string](newFakeDB(), nil)
	require.ErrorIs(t, err, pgbatch.ErrNilStatementFunc)
}

func TestFlushSendsOneBatch(t *testing.T) {
	t.Parallel()

	db := newFakeDB()

	var mu sync.Mutex
	var seen []string
	sink, err := pgbatch.NewSink(db, func(b *pgx.Batch, item string) error {
		mu.Lock()
		seen = append(seen, item)
		mu.Unlock()
		b.Queue("INSERT INTO events (kind) VALUES ($1)", item)
		return nil
	})
	require.NoError(t, err)

	rows, err := sink.Flush(context.Background(), []string{"login", "logout", "signup"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), rows)
	assert.Equal(t, []string{"login", "logout", "signup"}, seen, "items are queued in batch order")
	assert.Equal(t, []int{3}, db.sent(), "one round trip per batch")
	assert.True(t, db.last.closed, "batch results must be closed")
}

func TestFlushStatementErrorAbortsBatch(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	boom := errors.New("item not serializable")

	sink, err := pgbatch.NewSink(db, func(b *pgx.Batch, item string) error {
		if item == "bad" {
			return boom
		}
		b.Queue("INSERT INTO events (kind) VALUES ($1)", item)
		return nil
	})
	require.NoError(t, err)

	_, err = sink.Flush(context.Background(), []string{"ok", "bad"})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, db.sent(), "nothing is sent when a statement func fails")
}

func TestFlushExecError(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	db.failAt = 1

	sink, err := pgbatch.NewSink(db, func(b *pgx.Batch, item int) error {
		b.Queue("INSERT INTO numbers (n) VALUES ($1)", item)
		return nil
	})
	require.NoError(t, err)

	rows, err := sink.Flush(context.Background(), []int{1, 2, 3})
	require.ErrorIs(t, err, pgbatch.ErrBatchFailed)
	assert.Contains(t, err.Error(), "deadlock detected")
	assert.Equal(t, int64(1), rows, "rows before the failure are reported")
	assert.True(t, db.last.closed, "batch results must be closed on failure")
}

func TestFlushNothingQueued(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	sink, err := pgbatch.NewSink(db, func(b *pgx.Batch, item string) error {
		return nil // filters every item out
	})
	require.NoError(t, err)

	rows, err := sink.Flush(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.Empty(t, db.sent(), "an empty batch never hits the database")
}

func TestQueueWritesBatches(t *testing.T) {
	t.Parallel()

	db := newFakeDB()

	queue, err := pgbatch.NewQueue(context.Background(), 50*time.Millisecond, db,
		func(b *pgx.Batch, item string) error {
			b.Queue("INSERT INTO events (kind) VALUES ($1)", item)
			return nil
		})
	require.NoError(t, err)

	queue.Add("login", "logout", "signup")

	rows, err := queue.CurrentBatch().AwaitWithTimeout(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rows)
	assert.Equal(t, []int{3}, db.sent())
}

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	dup := fmt.Errorf("batch item 2: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, pgbatch.IsDuplicateKeyError(dup))
	assert.False(t, pgbatch.IsDuplicateKeyError(errors.New("plain")))
	assert.False(t, pgbatch.IsDuplicateKeyError(nil))

	fk := fmt.Errorf("batch item 0: %w", &pgconn.PgError{Code: "23503"})
	assert.True(t, pgbatch.IsForeignKeyViolationError(fk))
	assert.False(t, pgbatch.IsForeignKeyViolationError(dup))
}
