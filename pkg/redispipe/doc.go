// Package redispipe batches writes to Redis through pipelining.
//
// Issuing one Redis command per event costs one round trip per event. The
// sink in this package collects items into batches and sends each batch as
// a single pipeline, cutting the round trips to one per burst.
//
// The package wraps the go-redis client and adds:
//
//   - Robust `Connect` which retries the connection using the supplied
//     configuration.
//   - A generic `Sink` that turns items into pipelined commands.
//   - `NewQueue` which wires the sink into a batching queue.
//   - A health-check helper for liveness and readiness probes.
//
// Configuration is described by the `Config` struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	ctx := context.Background()
//
//	var cfg redispipe.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//	client, err := redispipe.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	type visit struct {
//	    Page string
//	    N    int64
//	}
//
//	queue, err := redispipe.NewQueue(ctx, 100*time.Millisecond, client,
//	    func(pipe redis.Pipeliner, v visit) error {
//	        pipe.IncrBy(ctx, "hits:"+v.Page, v.N)
//	        return nil
//	    })
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	queue.Add(visit{Page: "/pricing", N: 1})
//
// # Errors
//
// The package defines sentinel errors (e.g. ErrPipelineFailed) that wrap the
// underlying go-redis errors using errors.Join, so they compare with
// errors.Is and unwrap cleanly.
package redispipe
