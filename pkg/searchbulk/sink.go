package searchbulk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/dmitrymomot/batchkit"
)

// Action selects the bulk operation a document is submitted under.
type Action string

const (
	ActionIndex  Action = "index"
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

// Document describes one entry of a bulk request body.
type Document struct {
	// ID identifies the document. Leaving it empty lets the cluster assign
	// one, which is only valid for ActionIndex and ActionCreate.
	ID string
	// Index overrides the sink's default index for this document.
	Index string
	// Action defaults to ActionIndex when empty.
	Action Action
	// Source is the document body. It is ignored for ActionDelete.
	Source any
}

// DocumentFunc converts one queued item into a bulk document. Returning an
// error aborts the whole batch before any bytes are sent.
type DocumentFunc[T any] func(item T) (Document, error)

// Result summarizes one bulk round trip.
type Result struct {
	Took   time.Duration // server-side processing time
	Total  int           // documents submitted
	Failed int           // documents the cluster rejected
}

// Sink writes item batches to OpenSearch as a single _bulk request.
type Sink[T any] struct {
	client *opensearch.Client
	index  string
	doc    DocumentFunc[T]
}

// NewSink creates a sink that indexes into index by default and converts
// each item via doc.
func NewSink[T any](client *opensearch.Client, index string, doc DocumentFunc[T]) (*Sink[T], error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if index == "" {
		return nil, ErrEmptyIndex
	}
	if doc == nil {
		return nil, ErrNilDocumentFunc
	}
	return &Sink[T]{client: client, index: index, doc: doc}, nil
}

// Flush encodes the batch as an NDJSON bulk body and submits it in one
// request. The Result is populated even when ErrPartialFailure is returned,
// so callers can see how much of the batch landed.
func (s *Sink[T]) Flush(ctx context.Context, items []T) (Result, error) {
	body, total, err := s.encode(items)
	if err != nil {
		return Result{}, err
	}
	if total == 0 {
		return Result{}, nil
	}

	res, err := s.client.Bulk(
		bytes.NewReader(body),
		s.client.Bulk.WithContext(ctx),
		s.client.Bulk.WithIndex(s.index),
	)
	if err != nil {
		return Result{}, errors.Join(ErrBulkFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return Result{}, fmt.Errorf("%w: %s", ErrBulkFailed, res.Status())
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return Result{}, errors.Join(ErrBulkFailed, err)
	}

	result := Result{
		Took:  time.Duration(parsed.Took) * time.Millisecond,
		Total: total,
	}
	if !parsed.Errors {
		return result, nil
	}

	var reasons []string
	for _, item := range parsed.Items {
		for _, outcome := range item {
			if outcome.Status < 300 {
				continue
			}
			result.Failed++
			if outcome.Error != nil && len(reasons) < 3 {
				reasons = append(reasons, fmt.Sprintf("%s (%s): %s", outcome.ID, outcome.Error.Type, outcome.Error.Reason))
			}
		}
	}
	return result, fmt.Errorf("%w: %d of %d documents rejected: %s",
		ErrPartialFailure, result.Failed, total, strings.Join(reasons, "; "))
}

// encode builds the newline-delimited bulk body: an action line per
// document, followed by the source line for index and create actions.
func (s *Sink[T]) encode(items []T) ([]byte, int, error) {
	var buf bytes.Buffer
	total := 0
	for _, item := range items {
		doc, err := s.doc(item)
		if err != nil {
			return nil, 0, err
		}

		action := doc.Action
		if action == "" {
			action = ActionIndex
		}
		switch action {
		case ActionIndex, ActionCreate, ActionDelete:
		default:
			return nil, 0, fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}

		meta, err := json.Marshal(map[string]bulkMeta{
			string(action): {Index: doc.Index, ID: doc.ID},
		})
		if err != nil {
			return nil, 0, errors.Join(ErrEncodeFailed, err)
		}
		buf.Write(meta)
		buf.WriteByte('\n')

		if action != ActionDelete {
			source, err := json.Marshal(doc.Source)
			if err != nil {
				return nil, 0, errors.Join(ErrEncodeFailed, err)
			}
			buf.Write(source)
			buf.WriteByte('\n')
		}
		total++
	}
	return buf.Bytes(), total, nil
}

type bulkMeta struct {
	Index string `json:"_index,omitempty"`
	ID    string `json:"_id,omitempty"`
}

type bulkResponse struct {
	Took   int                   `json:"took"`
	Errors bool                  `json:"errors"`
	Items  []map[string]bulkItem `json:"items"`
}

type bulkItem struct {
	ID     string     `json:"_id"`
	Status int        `json:"status"`
	Error  *bulkError `json:"error"`
}

type bulkError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// NewQueue wires a sink into a batching queue: items added to the queue are
// coalesced for delay and submitted to OpenSearch as one bulk request per
// batch. The step future resolves to the batch Result.
func NewQueue[T any](ctx context.Context, delay time.Duration, client *opensearch.Client, index string, doc DocumentFunc[T], opts ...batchkit.Option) (*batchkit.Queue[T, Result], error) {
	sink, err := NewSink[T](client, index, doc)
	if err != nil {
		return nil, err
	}
	return batchkit.New(ctx, delay, sink.Flush, opts...)
}
