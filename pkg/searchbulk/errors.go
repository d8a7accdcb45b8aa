package searchbulk

import "errors"

var (
	// ErrConnectionFailed indicates the OpenSearch client could not be created
	// due to configuration or network issues. Use errors.Is() to check.
	ErrConnectionFailed = errors.New("opensearch connection failed")

	// ErrHealthcheckFailed indicates the cluster is unreachable or unhealthy.
	// Returned by both Connect() during initialization and Healthcheck()
	// during monitoring.
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")

	// ErrNilClient is returned by NewSink when no client is supplied.
	ErrNilClient = errors.New("opensearch client cannot be nil")

	// ErrEmptyIndex is returned by NewSink when the default index is empty.
	ErrEmptyIndex = errors.New("index name cannot be empty")

	// ErrNilDocumentFunc is returned by NewSink when no document func is supplied.
	ErrNilDocumentFunc = errors.New("document func cannot be nil")

	// ErrUnknownAction marks a Document whose Action is not one of the
	// supported bulk operations.
	ErrUnknownAction = errors.New("unknown bulk action")

	// ErrEncodeFailed wraps JSON encoding failures of a document source.
	ErrEncodeFailed = errors.New("failed to encode bulk document")

	// ErrBulkFailed wraps transport and whole-request failures of the bulk
	// endpoint. No per-document information is available in this case.
	ErrBulkFailed = errors.New("bulk request failed")

	// ErrPartialFailure indicates the cluster accepted the request but
	// rejected some documents. The Result returned alongside it carries the
	// failure count.
	ErrPartialFailure = errors.New("bulk request partially failed")
)
