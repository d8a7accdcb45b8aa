package mailbatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/batchkit"
)

// maxBatchSize is the Postmark batch API limit per call. Larger batches are
// split into consecutive calls.
const maxBatchSize = 500

// BatchSender is the slice of the Postmark client the sink needs. DevSender
// implements it for local development.
type BatchSender interface {
	SendEmailBatch(ctx context.Context, emails []postmark.Email) ([]postmark.EmailResponse, error)
}

// Result summarizes one batch send.
type Result struct {
	Sent   int // messages the provider accepted
	Failed int // messages the provider rejected
}

// Sink delivers message batches through the Postmark batch API.
// Tracking is enabled by default for analytics - opens and HTML link clicks only
// to avoid privacy issues with plain text. Reply-To is set to support email
// to ensure customer responses reach the right team.
type Sink struct {
	client BatchSender
	config Config
}

// NewSink creates a sink sending through client. SenderEmail and SupportEmail
// must be set in cfg; the Postmark tokens are not needed when the client is
// supplied directly.
func NewSink(client BatchSender, cfg Config) (*Sink, error) {
	if client == nil {
		return nil, ErrNilSender
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if cfg.SupportEmail == "" {
		return nil, fmt.Errorf("%w: SupportEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
	}
	return &Sink{client: client, config: cfg}, nil
}

// NewPostmarkSink creates a Postmark-backed sink.
// Both tokens are required for runtime operation - this enforces
// explicit configuration rather than silent failures in production.
func NewPostmarkSink(cfg Config) (*Sink, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	return NewSink(postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken), cfg)
}

// MustNewPostmarkSink creates a Postmark sink that panics on invalid config.
// Follows the pattern of failing fast during initialization rather than
// allowing broken services to start.
func MustNewPostmarkSink(cfg Config) *Sink {
	sink, err := NewPostmarkSink(cfg)
	if err != nil {
		panic(err)
	}
	return sink
}

// Flush validates every message, then delivers the batch in chunks of at
// most maxBatchSize per provider call. The Result is populated even when
// ErrPartialSendFailure is returned, so callers can see how much of the
// batch was accepted.
func (s *Sink) Flush(ctx context.Context, msgs []Message) (Result, error) {
	for _, m := range msgs {
		if err := m.Validate(); err != nil {
			return Result{}, err
		}
	}

	var result Result
	var reasons []string
	for start := 0; start < len(msgs); start += maxBatchSize {
		chunk := msgs[start:min(start+maxBatchSize, len(msgs))]

		emails := make([]postmark.Email, len(chunk))
		for i, m := range chunk {
			emails[i] = postmark.Email{
				From:       s.config.SenderEmail,
				ReplyTo:    s.config.SupportEmail,
				To:         m.SendTo,
				Subject:    m.Subject,
				Tag:        m.Tag,
				HTMLBody:   m.BodyHTML,
				TrackOpens: true,
				TrackLinks: "HtmlOnly",
			}
		}

		responses, err := s.client.SendEmailBatch(ctx, emails)
		if err != nil {
			return result, errors.Join(ErrFailedToSendEmail, err)
		}
		for _, resp := range responses {
			if resp.ErrorCode > 0 {
				result.Failed++
				if len(reasons) < 3 {
					reasons = append(reasons, fmt.Sprintf("%s: %d - %s", resp.To, resp.ErrorCode, resp.Message))
				}
				continue
			}
			result.Sent++
		}
	}

	if result.Failed > 0 {
		return result, fmt.Errorf("%w: %d of %d: %s",
			ErrPartialSendFailure, result.Failed, len(msgs), strings.Join(reasons, "; "))
	}
	return result, nil
}

// NewQueue wires a sink into a batching queue: messages added to the queue
// coalesce for delay and go out as batch API calls instead of one request
// per email. The step future resolves to the batch Result.
func NewQueue(ctx context.Context, delay time.Duration, client BatchSender, cfg Config, opts ...batchkit.Option) (*batchkit.Queue[Message, Result], error) {
	sink, err := NewSink(client, cfg)
	if err != nil {
		return nil, err
	}
	return batchkit.New(ctx, delay, sink.Flush, opts...)
}

// NewPostmarkQueue is NewQueue with a Postmark client built from cfg.
func NewPostmarkQueue(ctx context.Context, delay time.Duration, cfg Config, opts ...batchkit.Option) (*batchkit.Queue[Message, Result], error) {
	sink, err := NewPostmarkSink(cfg)
	if err != nil {
		return nil, err
	}
	return batchkit.New(ctx, delay, sink.Flush, opts...)
}
