package mailbatch

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid mailer config")
	ErrInvalidParams      = errors.New("invalid email params")
	ErrNilSender          = errors.New("batch sender cannot be nil")
	ErrFailedToSendEmail  = errors.New("failed to send email")
	ErrPartialSendFailure = errors.New("some messages were rejected")
)
