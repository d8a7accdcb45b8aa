// Package searchbulk batches documents into OpenSearch _bulk requests.
//
// The package builds on github.com/opensearch-project/opensearch-go/v2,
// which is thread-safe by design. Beyond the underlying client, it exposes
// four public touch points:
//
//   - Config – declarative representation of connection settings that can be
//     populated from environment variables via github.com/dmitrymomot/batchkit/pkg/config.
//
//   - Connect – constructs a ready-to-use *opensearch.Client instance and
//     performs an initial Healthcheck ensuring the cluster is reachable.
//
//   - Sink – converts item batches into newline-delimited bulk bodies and
//     submits each batch as a single request.
//
//   - NewQueue – mounts a Sink behind a batching queue so individual
//     documents produced across goroutines coalesce into bulk requests.
//
// # Usage
//
//	client, err := searchbulk.Connect(ctx, searchbulk.Config{
//	    Addresses: []string{"https://localhost:9200"},
//	    Username:  "admin",
//	    Password:  "admin",
//	})
//	if err != nil {
//	    // use errors.Is(err, searchbulk.ErrConnectionFailed)
//	}
//
//	queue, err := searchbulk.NewQueue(ctx, 2*time.Second, client, "pageviews",
//	    func(v PageView) (searchbulk.Document, error) {
//	        return searchbulk.Document{ID: v.ID, Source: v}, nil
//	    })
//	if err != nil {
//	    // handle
//	}
//
//	queue.Add(view)
//
// Deletions ride the same queue by returning ActionDelete documents:
//
//	func(id string) (searchbulk.Document, error) {
//	    return searchbulk.Document{ID: id, Action: searchbulk.ActionDelete}, nil
//	}
//
// # Error Handling
//
// Whole-request failures surface as ErrBulkFailed. When the cluster accepts
// the request but rejects individual documents, Flush returns
// ErrPartialFailure together with a Result whose Failed count says how many
// were rejected:
//
//	res, err := queue.CurrentBatch().Await()
//	if errors.Is(err, searchbulk.ErrPartialFailure) {
//	    log.Warn("partial bulk failure", "failed", res.Failed, "total", res.Total)
//	}
//
// # Performance Considerations
//
// The MaxRetries and DisableRetry fields in Config map directly to the
// opensearch-go/v2 client and should be tuned according to the latency and
// reliability of your network. Larger coalescing delays produce larger bulk
// bodies and fewer round trips.
package searchbulk
