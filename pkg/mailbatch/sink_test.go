package mailbatch_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/batchkit/pkg/mailbatch"
)

type fakeSender struct {
	err    error
	reject map[string]int64 // recipient -> provider error code

	mu      sync.Mutex
	batches [][]postmark.Email
}

func (f *fakeSender) SendEmailBatch(ctx context.Context, emails []postmark.Email) ([]postmark.EmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.batches = append(f.batches, emails)
	f.mu.Unlock()

	responses := make([]postmark.EmailResponse, len(emails))
	for i, email := range emails {
		responses[i] = postmark.EmailResponse{To: email.To, MessageID: fmt.Sprintf("msg-%d", i)}
		if code, ok := f.reject[email.To]; ok {
			responses[i].ErrorCode = code
			responses[i].Message = "rejected by provider"
		}
	}
	return responses, nil
}

func (f *fakeSender) sent() [][]postmark.Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]postmark.Email(nil), f.batches...)
}

func validConfig() mailbatch.Config {
	return mailbatch.Config{
		PostmarkServerToken:  "test-server-token",
		PostmarkAccountToken: "test-account-token",
		SenderEmail:          "sender@example.com",
		SupportEmail:         "support@example.com",
	}
}

func msgTo(to string) mailbatch.Message {
	return mailbatch.Message{
		SendTo:   to,
		Subject:  "Test Email",
		BodyHTML: "<p>Test content</p>",
		Tag:      "test",
	}
}

func TestNewSinkValidation(t *testing.T) {
	t.Parallel()

	t.Run("nil sender", func(t *testing.T) {
		t.Parallel()

		_, err := mailbatch.NewSink(nil, validConfig())
		assert.ErrorIs(t, err, mailbatch.ErrNilSender)
	})

	t.Run("missing sender email", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.SenderEmail = ""
		_, err := mailbatch.NewSink(&fakeSender{}, cfg)
		assert.ErrorIs(t, err, mailbatch.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "SenderEmail is required")
	})

	t.Run("invalid sender email format", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.SenderEmail = "invalid-email"
		_, err := mailbatch.NewSink(&fakeSender{}, cfg)
		assert.ErrorIs(t, err, mailbatch.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "SenderEmail must be a valid email address")
	})

	t.Run("missing support email", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.SupportEmail = ""
		_, err := mailbatch.NewSink(&fakeSender{}, cfg)
		assert.ErrorIs(t, err, mailbatch.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "SupportEmail is required")
	})

	t.Run("invalid support email format", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.SupportEmail = "@invalid.com"
		_, err := mailbatch.NewSink(&fakeSender{}, cfg)
		assert.ErrorIs(t, err, mailbatch.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "SupportEmail must be a valid email address")
	})

	t.Run("tokens not required with explicit sender", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.PostmarkServerToken = ""
		cfg.PostmarkAccountToken = ""
		sink, err := mailbatch.NewSink(&fakeSender{}, cfg)
		require.NoError(t, err)
		assert.NotNil(t, sink)
	})
}

func TestNewPostmarkSinkValidation(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		sink, err := mailbatch.NewPostmarkSink(validConfig())
		require.NoError(t, err)
		assert.NotNil(t, sink)
	})

	t.Run("empty server token", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.PostmarkServerToken = ""
		_, err := mailbatch.NewPostmarkSink(cfg)
		assert.ErrorIs(t, err, mailbatch.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "PostmarkServerToken is required")
	})

	t.Run("empty account token", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.PostmarkAccountToken = ""
		_, err := mailbatch.NewPostmarkSink(cfg)
		assert.ErrorIs(t, err, mailbatch.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "PostmarkAccountToken is required")
	})
}

func TestMustNewPostmarkSink(t *testing.T) {
	t.Parallel()

	t.Run("valid config does not panic", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			sink := mailbatch.MustNewPostmarkSink(validConfig())
			assert.NotNil(t, sink)
		})
	})

	t.Run("invalid config panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			mailbatch.MustNewPostmarkSink(mailbatch.Config{PostmarkServerToken: "only-token"})
		})
	})
}

func TestFlushSendsBatch(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	sink, err := mailbatch.NewSink(sender, validConfig())
	require.NoError(t, err)

	res, err := sink.Flush(context.Background(), []mailbatch.Message{
		msgTo("a@example.com"),
		msgTo("b@example.com"),
		msgTo("c@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, mailbatch.Result{Sent: 3}, res)

	batches := sender.sent()
	require.Len(t, batches, 1, "one provider call per batch")
	require.Len(t, batches[0], 3)

	first := batches[0][0]
	assert.Equal(t, "sender@example.com", first.From)
	assert.Equal(t, "support@example.com", first.ReplyTo)
	assert.Equal(t, "a@example.com", first.To)
	assert.Equal(t, "Test Email", first.Subject)
	assert.Equal(t, "test", first.Tag)
	assert.True(t, first.TrackOpens)
	assert.Equal(t, "HtmlOnly", first.TrackLinks)
}

func TestFlushChunksLargeBatches(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	sink, err := mailbatch.NewSink(sender, validConfig())
	require.NoError(t, err)

	msgs := make([]mailbatch.Message, 1001)
	for i := range msgs {
		msgs[i] = msgTo(fmt.Sprintf("user%d@example.com", i))
	}

	res, err := sink.Flush(context.Background(), msgs)
	require.NoError(t, err)
	assert.Equal(t, mailbatch.Result{Sent: 1001}, res)

	batches := sender.sent()
	require.Len(t, batches, 3, "the provider accepts at most 500 messages per call")
	assert.Len(t, batches[0], 500)
	assert.Len(t, batches[1], 500)
	assert.Len(t, batches[2], 1)
	assert.Equal(t, "user0@example.com", batches[0][0].To)
	assert.Equal(t, "user1000@example.com", batches[2][0].To)
}

func TestFlushValidationAborts(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	sink, err := mailbatch.NewSink(sender, validConfig())
	require.NoError(t, err)

	_, err = sink.Flush(context.Background(), []mailbatch.Message{
		msgTo("a@example.com"),
		msgTo("not-an-address"),
	})
	require.ErrorIs(t, err, mailbatch.ErrInvalidParams)
	assert.Empty(t, sender.sent(), "nothing is sent when any message fails validation")
}

func TestFlushProviderError(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{err: errors.New("postmark is down")}
	sink, err := mailbatch.NewSink(sender, validConfig())
	require.NoError(t, err)

	_, err = sink.Flush(context.Background(), []mailbatch.Message{msgTo("a@example.com")})
	require.ErrorIs(t, err, mailbatch.ErrFailedToSendEmail)
	assert.Contains(t, err.Error(), "postmark is down")
}

func TestFlushPartialFailure(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{reject: map[string]int64{"b@example.com": 406}}
	sink, err := mailbatch.NewSink(sender, validConfig())
	require.NoError(t, err)

	res, err := sink.Flush(context.Background(), []mailbatch.Message{
		msgTo("a@example.com"),
		msgTo("b@example.com"),
	})
	require.ErrorIs(t, err, mailbatch.ErrPartialSendFailure)
	assert.Contains(t, err.Error(), "b@example.com")
	assert.Contains(t, err.Error(), "406")
	assert.Equal(t, mailbatch.Result{Sent: 1, Failed: 1}, res)
}

func TestQueueSendsBatches(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}

	queue, err := mailbatch.NewQueue(context.Background(), 50*time.Millisecond, sender, validConfig())
	require.NoError(t, err)

	queue.Add(msgTo("a@example.com"), msgTo("b@example.com"))

	res, err := queue.CurrentBatch().AwaitWithTimeout(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, mailbatch.Result{Sent: 2}, res)

	batches := sender.sent()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)
}

func TestNewQueueValidation(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.SenderEmail = ""
	_, err := mailbatch.NewQueue(context.Background(), time.Second, &fakeSender{}, cfg)
	require.ErrorIs(t, err, mailbatch.ErrInvalidConfig)
}
