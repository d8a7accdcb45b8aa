// Package pgbatch batches writes to PostgreSQL through pgx batch execution.
//
// Issuing one INSERT per event costs one round trip per event. The sink in
// this package collects items into batches and sends each batch through
// pgx's SendBatch, cutting the round trips to one per burst.
//
// The package wraps the pgx driver and adds:
//
//   - Robust `Connect` which builds a pgxpool with retry logic.
//   - A generic `Sink` that turns items into batched statements.
//   - `NewQueue` which wires the sink into a batching queue.
//   - Error classifiers for unique and foreign key violations, handy in
//     fault handlers.
//
// Configuration is described by the `Config` struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	ctx := context.Background()
//
//	var cfg pgbatch.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//	pool, err := pgbatch.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	type event struct {
//	    UserID string
//	    Kind   string
//	}
//
//	queue, err := pgbatch.NewQueue(ctx, 200*time.Millisecond, pool,
//	    func(b *pgx.Batch, e event) error {
//	        b.Queue("INSERT INTO events (user_id, kind) VALUES ($1, $2)", e.UserID, e.Kind)
//	        return nil
//	    })
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	queue.Add(event{UserID: "u1", Kind: "login"})
//
// # Errors
//
// Batch failures wrap ErrBatchFailed via errors.Join so they compare with
// errors.Is and unwrap to the pgx error underneath.
package pgbatch
