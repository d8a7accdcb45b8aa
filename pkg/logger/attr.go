package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Queue records the queue name under the key "queue".
func Queue(name string) slog.Attr {
	return slog.String("queue", name)
}

// QueueID records the queue identifier under the key "queue_id".
// If id is nil, it returns an empty Attr.
func QueueID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("queue_id", id)
}

// BatchSize records the number of items in a batch under the key "batch_size".
func BatchSize(n int) slog.Attr {
	return slog.Int("batch_size", n)
}

// Pending records the number of in-flight operations under the key "pending".
func Pending(n int) slog.Attr {
	return slog.Int("pending", n)
}

// Op records the operation name under the key "op".
func Op(name string) slog.Attr {
	return slog.String("op", name)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Path records a filesystem or object path under the key "path".
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Attempt records a retry attempt number under the key "attempt".
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}
