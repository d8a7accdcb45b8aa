package objstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/batchkit"
)

// maxDeleteKeys is the S3 DeleteObjects limit per call. Larger batches are
// split into consecutive calls.
const maxDeleteKeys = 1000

// Client is the slice of the S3 API the sink needs.
type Client interface {
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Result summarizes one batch of deletions.
type Result struct {
	Deleted int // keys the service removed
	Failed  int // keys the service reported errors for
}

// Sink removes object key batches from one bucket via DeleteObjects.
type Sink struct {
	client Client
	bucket string
}

// NewSink creates a sink deleting from bucket through client.
func NewSink(client Client, bucket string) (*Sink, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if bucket == "" {
		return nil, fmt.Errorf("%w: Bucket is required", ErrInvalidConfig)
	}
	return &Sink{client: client, bucket: bucket}, nil
}

// Flush deletes the keys in chunks of at most maxDeleteKeys per call. The
// Result is populated even when ErrPartialDeleteFailure is returned, so
// callers can see how much of the batch succeeded.
func (s *Sink) Flush(ctx context.Context, keys []string) (Result, error) {
	var result Result
	var reasons []string
	for start := 0; start < len(keys); start += maxDeleteKeys {
		chunk := keys[start:min(start+maxDeleteKeys, len(keys))]

		objects := make([]types.ObjectIdentifier, len(chunk))
		for i, key := range chunk {
			objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objects},
		})
		if err != nil {
			return result, classifyError(err, "delete objects")
		}

		result.Deleted += len(out.Deleted)
		for _, e := range out.Errors {
			result.Failed++
			if len(reasons) < 3 {
				reasons = append(reasons, fmt.Sprintf("%s (%s): %s",
					aws.ToString(e.Key), aws.ToString(e.Code), aws.ToString(e.Message)))
			}
		}
	}

	if result.Failed > 0 {
		return result, fmt.Errorf("%w: %d of %d keys: %s",
			ErrPartialDeleteFailure, result.Failed, len(keys), strings.Join(reasons, "; "))
	}
	return result, nil
}

// classifyError converts S3 errors to domain-specific errors. Context errors
// keep their identity so callers can still match them with errors.Is.
func classifyError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s operation: %w", operation, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return fmt.Errorf("%w: %s operation", ErrAccessDenied, operation)
		case "NoSuchBucket":
			return ErrBucketNotFound
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s operation", ErrServiceUnavailable, operation)
		default:
			return fmt.Errorf("%s operation failed (code: %s): %w", operation, apiErr.ErrorCode(), err)
		}
	}

	return fmt.Errorf("%s operation failed: %w", operation, err)
}

// NewQueue wires a sink into a deduplicating batching queue: keys added to
// the queue coalesce for delay, duplicate keys collapse into one pending
// entry, and each drained batch is deleted with as few DeleteObjects calls
// as possible. The step future resolves to the batch Result.
func NewQueue(ctx context.Context, delay time.Duration, client Client, bucket string, opts ...batchkit.Option) (*batchkit.Queue[string, Result], error) {
	sink, err := NewSink(client, bucket)
	if err != nil {
		return nil, err
	}
	return batchkit.NewDeduping(ctx, delay, batchkit.Equal[string], sink.Flush, opts...)
}
