package bedrock

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	bedrocksdk "github.com/aws/aws-sdk-go-v2/service/bedrock"
	runtimesdk "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// Options tunes the AWS-backed client.
type Options struct {
	// Endpoint overrides the service endpoint, e.g. for a local emulator.
	Endpoint string
}

// AWSClient talks to the Bedrock control plane and runtime through the AWS SDK.
type AWSClient struct {
	control *bedrocksdk.Client
	runtime *runtimesdk.Client
}

// NewClient builds an AWSClient for explicit credentials. The shared AWS
// credential chain is never consulted.
func NewClient(ctx context.Context, creds Credentials, opts Options) (*AWSClient, error) {
	if strings.TrimSpace(creds.Region) == "" {
		return nil, errors.New("bedrock: region is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(creds.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			creds.SessionToken,
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("bedrock: load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	return &AWSClient{
		control: bedrocksdk.NewFromConfig(cfg, func(o *bedrocksdk.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}),
		runtime: runtimesdk.NewFromConfig(cfg, func(o *runtimesdk.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}),
	}, nil
}

// ListModels implements the Client interface.
func (c *AWSClient) ListModels(ctx context.Context) ([]ModelSummary, error) {
	out, err := c.control.ListFoundationModels(ctx, &bedrocksdk.ListFoundationModelsInput{})
	if err != nil {
		return nil, wrapError("ListFoundationModels", err)
	}

	models := make([]ModelSummary, 0, len(out.ModelSummaries))
	for _, summary := range out.ModelSummaries {
		models = append(models, ModelSummary{
			ID:               aws.ToString(summary.ModelId),
			Name:             aws.ToString(summary.ModelName),
			Provider:         aws.ToString(summary.ProviderName),
			OutputModalities: modalities(summary.OutputModalities),
		})
	}
	return models, nil
}

// GetModel implements the Client interface.
func (c *AWSClient) GetModel(ctx context.Context, modelID string) (ModelDetails, error) {
	out, err := c.control.GetFoundationModel(ctx, &bedrocksdk.GetFoundationModelInput{
		ModelIdentifier: aws.String(modelID),
	})
	if err != nil {
		return ModelDetails{}, wrapError("GetFoundationModel", err)
	}
	if out.ModelDetails == nil {
		return ModelDetails{}, fmt.Errorf("bedrock: GetFoundationModel: no details returned for %q", modelID)
	}

	details := out.ModelDetails
	return ModelDetails{
		ModelSummary: ModelSummary{
			ID:               aws.ToString(details.ModelId),
			Name:             aws.ToString(details.ModelName),
			Provider:         aws.ToString(details.ProviderName),
			OutputModalities: modalities(details.OutputModalities),
		},
		ARN:                aws.ToString(details.ModelArn),
		InputModalities:    modalities(details.InputModalities),
		StreamingSupported: aws.ToBool(details.ResponseStreamingSupported),
	}, nil
}

// Converse implements the Client interface.
func (c *AWSClient) Converse(ctx context.Context, req ConverseRequest) (ConverseResponse, error) {
	out, err := c.runtime.Converse(ctx, &runtimesdk.ConverseInput{
		ModelId: aws.String(req.ModelID),
		Messages: []runtimetypes.Message{
			{
				Role: runtimetypes.ConversationRoleUser,
				Content: []runtimetypes.ContentBlock{
					&runtimetypes.ContentBlockMemberText{Value: req.Prompt},
				},
			},
		},
		InferenceConfig: inferenceConfiguration(req.Inference),
	})
	if err != nil {
		return ConverseResponse{}, wrapError("Converse", err)
	}

	resp := ConverseResponse{StopReason: string(out.StopReason)}
	if out.Usage != nil {
		resp.InputTokens = int(aws.ToInt32(out.Usage.InputTokens))
		resp.OutputTokens = int(aws.ToInt32(out.Usage.OutputTokens))
	}

	msg, ok := out.Output.(*runtimetypes.ConverseOutputMemberMessage)
	if !ok {
		return resp, fmt.Errorf("bedrock: Converse: unexpected output type %T", out.Output)
	}
	for _, block := range msg.Value.Content {
		if text, ok := block.(*runtimetypes.ContentBlockMemberText); ok {
			resp.Text = text.Value
			break
		}
	}
	return resp, nil
}

func inferenceConfiguration(cfg InferenceConfig) *runtimetypes.InferenceConfiguration {
	if cfg.Temperature == nil && cfg.TopP == nil && cfg.MaxTokens == nil && cfg.StopSequences == nil {
		return nil
	}
	out := &runtimetypes.InferenceConfiguration{StopSequences: cfg.StopSequences}
	if cfg.Temperature != nil {
		out.Temperature = aws.Float32(float32(*cfg.Temperature))
	}
	if cfg.TopP != nil {
		out.TopP = aws.Float32(float32(*cfg.TopP))
	}
	if cfg.MaxTokens != nil {
		out.MaxTokens = aws.Int32(int32(min(*cfg.MaxTokens, math.MaxInt32)))
	}
	return out
}

func modalities[T ~string](in []T) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, m := range in {
		out[i] = string(m)
	}
	return out
}
