package handler

import (
	"context"
	"time"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/bedrock"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/telemetry"
)

// instrument wraps the clients built by factory so every call is timed.
func instrument(factory bedrock.ClientFactory, metrics *telemetry.Recorder) bedrock.ClientFactory {
	return func(ctx context.Context, creds bedrock.Credentials) (bedrock.Client, error) {
		client, err := factory(ctx, creds)
		if err != nil {
			return nil, err
		}
		return &instrumentedClient{next: client, metrics: metrics}, nil
	}
}

type instrumentedClient struct {
	next    bedrock.Client
	metrics *telemetry.Recorder
}

func (c *instrumentedClient) ListModels(ctx context.Context) ([]bedrock.ModelSummary, error) {
	start := time.Now()
	models, err := c.next.ListModels(ctx)
	c.metrics.ObserveRemoteCall("ListFoundationModels", time.Since(start), err)
	return models, err
}

func (c *instrumentedClient) GetModel(ctx context.Context, modelID string) (bedrock.ModelDetails, error) {
	start := time.Now()
	details, err := c.next.GetModel(ctx, modelID)
	c.metrics.ObserveRemoteCall("GetFoundationModel", time.Since(start), err)
	return details, err
}

func (c *instrumentedClient) Converse(ctx context.Context, req bedrock.ConverseRequest) (bedrock.ConverseResponse, error) {
	start := time.Now()
	resp, err := c.next.Converse(ctx, req)
	c.metrics.ObserveRemoteCall("Converse", time.Since(start), err)
	return resp, err
}
