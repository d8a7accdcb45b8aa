package redispipe

import "errors"

var (
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady           = errors.New("redis did not become ready within the given time period")
	ErrHealthcheckFailed       = errors.New("redis healthcheck failed")
	ErrNilClient               = errors.New("redis client cannot be nil")
	ErrNilCommandFunc          = errors.New("command func cannot be nil")
	ErrPipelineFailed          = errors.New("redis pipeline execution failed")
)
