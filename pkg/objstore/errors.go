package objstore

import "errors"

var (
	ErrInvalidConfig        = errors.New("invalid object storage config")
	ErrFailedToLoadConfig   = errors.New("failed to load aws config")
	ErrNilClient            = errors.New("s3 client cannot be nil")
	ErrAccessDenied         = errors.New("access denied")
	ErrBucketNotFound       = errors.New("bucket not found")
	ErrServiceUnavailable   = errors.New("storage service unavailable")
	ErrPartialDeleteFailure = errors.New("some objects were not deleted")
)
