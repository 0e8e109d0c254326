package bedrock

import (
	"context"
	"log/slog"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/config"
)

// ClientFactory builds a Client bound to a set of credentials. Clients are
// transient: callers build one per validation or prediction call.
type ClientFactory func(ctx context.Context, creds Credentials) (Client, error)

// NewFactory resolves the client implementation selected by the adapter
// configuration.
func NewFactory(cfg config.Config, logger *slog.Logger) ClientFactory {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.UseStubClient {
		logger.Warn("stub bedrock client forced by configuration")
		return StubFactory(NewStubClient(logger))
	}

	opts := Options{Endpoint: cfg.Endpoint}
	if opts.Endpoint != "" {
		logger.Info("bedrock endpoint overridden", "endpoint", opts.Endpoint)
	}
	return func(ctx context.Context, creds Credentials) (Client, error) {
		client, err := NewClient(ctx, creds, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// StubFactory returns a factory that hands out the same stub for any credentials.
func StubFactory(stub *StubClient) ClientFactory {
	return func(context.Context, Credentials) (Client, error) {
		return stub, nil
	}
}
