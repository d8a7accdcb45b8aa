// Package mailbatch coalesces transactional emails into Postmark batch API
// calls.
//
// Sending one HTTP request per email caps throughput at the provider round
// trip time. The batch endpoint accepts up to 500 messages per call, so the
// package mounts a Sink behind a batching queue: goroutines add individual
// messages, the queue coalesces a burst, and the sink delivers it with as
// few provider calls as possible.
//
// # Usage
//
//	cfg := mailbatch.Config{
//	    PostmarkServerToken:  "your-server-token",
//	    PostmarkAccountToken: "your-account-token",
//	    SenderEmail:          "noreply@example.com",
//	    SupportEmail:         "support@example.com",
//	}
//
//	queue, err := mailbatch.NewPostmarkQueue(ctx, time.Second, cfg)
//	if err != nil {
//	    // Handle configuration error
//	}
//
//	queue.Add(mailbatch.Message{
//	    SendTo:   "user@example.com",
//	    Subject:  "Welcome!",
//	    BodyHTML: htmlContent,
//	    Tag:      "welcome", // optional, for analytics
//	})
//
// Development mode saves emails locally instead of sending them:
//
//	queue, err := mailbatch.NewQueue(ctx, time.Second,
//	    mailbatch.NewDevSender("./email-output"), cfg)
//	// Creates timestamped HTML and JSON files in ./email-output/
//
// # Error Handling
//
// The package provides sentinel errors for common failure scenarios:
//   - ErrInvalidConfig: Configuration validation failed
//   - ErrInvalidParams: Message validation failed
//   - ErrFailedToSendEmail: A provider call failed outright
//   - ErrPartialSendFailure: The provider rejected some messages
//
// All errors can be checked using errors.Is() for programmatic handling.
// On ErrPartialSendFailure the Result carries the accepted and rejected
// counts.
package mailbatch
