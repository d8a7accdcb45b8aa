// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package standardises structured logging across batch pipelines by
// exposing a single factory – New – that creates a *slog.Logger configured by
// a set of Option functions. These options allow you to:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from
//     a context value (for example a job id) every time Handle is invoked.
//
// Helper constructors such as Queue, BatchSize, and Error live in attr.go and
// return commonly-used slog.Attr instances to keep attribute naming consistent
// across queues, watchers, and sinks.
//
// # Usage
//
//	import "github.com/dmitrymomot/batchkit/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithDevelopment("indexer"),
//	        logger.WithContextValue("job_id", ctxKeyJobID),
//	    )
//	    logger.SetAsDefault(log)
//
//	    ctx := context.WithValue(context.Background(), ctxKeyJobID, "abc-123")
//	    log.InfoContext(ctx, "batch flushed",
//	        logger.Queue("search-index"),
//	        logger.BatchSize(128),
//	        logger.Duration(time.Since(start)),
//	    )
//	}
//
// # Error Handling
//
// Helper functions Error and Errors produce attributes only when the supplied
// error value is non-nil allowing calls like:
//
//	log.Info("flush finished", logger.Error(err))
//
// without an additional nil check.
package logger
