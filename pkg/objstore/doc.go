// Package objstore batches S3 object deletions.
//
// Deleting objects one call per key wastes request quota and latency; the
// DeleteObjects API removes up to 1000 keys per call. The package mounts a
// Sink behind a deduplicating batching queue: goroutines add individual
// keys as files become garbage, duplicate keys collapse while pending, and
// each drained batch goes out in as few calls as possible.
//
// # Usage
//
//	client, err := objstore.Connect(ctx, objstore.Config{
//	    Bucket: "user-uploads",
//	    Region: "us-east-1",
//	})
//	if err != nil {
//	    // handle
//	}
//
//	queue, err := objstore.NewQueue(ctx, 5*time.Second, client, "user-uploads")
//	if err != nil {
//	    // handle
//	}
//
//	queue.Add("avatars/42.png", "avatars/42-thumb.png")
//
// S3-compatible services work through the Endpoint and ForcePathStyle
// config fields:
//
//	cfg := objstore.Config{
//	    Bucket:         "user-uploads",
//	    Region:         "us-east-1",
//	    Endpoint:       "http://localhost:9000",
//	    ForcePathStyle: true, // MinIO
//	}
//
// # Error Handling
//
// Whole-call failures are classified into ErrAccessDenied,
// ErrBucketNotFound and ErrServiceUnavailable where the service reports a
// matching code. When the call succeeds but some keys fail, the step future
// resolves to ErrPartialDeleteFailure alongside a Result carrying the
// deleted and failed counts.
package objstore
