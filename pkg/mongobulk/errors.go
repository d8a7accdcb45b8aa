package mongobulk

import "errors"

var (
	ErrFailedToConnect   = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed = errors.New("mongo healthcheck failed")
	ErrNilCollection     = errors.New("collection cannot be nil")
	ErrNilModelFunc      = errors.New("model func cannot be nil")
	ErrBulkWriteFailed   = errors.New("bulk write failed")
)
