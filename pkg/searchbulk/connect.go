package searchbulk

import (
	"context"
	"errors"

	"github.com/opensearch-project/opensearch-go/v2"
)

// Connect creates an OpenSearch client and verifies the cluster is reachable
// before returning it.
func Connect(ctx context.Context, cfg Config) (*opensearch.Client, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.DisableRetry,
	})
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	if err := Healthcheck(client)(ctx); err != nil {
		return nil, err
	}

	return client, nil
}

// Healthcheck returns a function suitable for liveness/readiness probes.
// The returned function calls the cluster info API to verify connectivity
// and is safe for concurrent use in HTTP health endpoints.
func Healthcheck(client *opensearch.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := client.Info(
			client.Info.WithContext(ctx),
			client.Info.WithErrorTrace(),
		); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
