// Package mongobulk batches writes to MongoDB through bulk write operations.
//
// Issuing one write per event costs one round trip per event. The sink in
// this package collects items into batches and sends each batch as a single
// unordered BulkWrite, cutting the round trips to one per burst.
//
// The package wraps the official mongo driver and adds:
//
//   - Robust `Connect` which retries the connection using the supplied
//     configuration.
//   - A generic `Sink` that converts items into write models.
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
//	var cfg mongobulk.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//	db, err := mongobulk.ConnectDatabase(ctx, cfg, "analytics")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	type pageview struct {
//	    Page string `bson:"page"`
//	    At   int64  `bson:"at"`
//	}
//
//	queue, err := mongobulk.NewQueue(ctx, 200*time.Millisecond, db.Collection("pageviews"),
//	    func(v pageview) (mongo.WriteModel, error) {
//	        return mongo.NewInsertOneModel().SetDocument(v), nil
//	    })
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	queue.Add(pageview{Page: "/pricing", At: time.Now().Unix()})
//
// # Errors
//
// Bulk write failures wrap ErrBulkWriteFailed via errors.Join so they
// compare with errors.Is and unwrap to the driver error underneath.
package mongobulk
