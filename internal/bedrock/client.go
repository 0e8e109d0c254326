package bedrock

import "context"

// ModalityText is the output modality reported by text-generation models.
const ModalityText = "TEXT"

// Client exposes the subset of the Amazon Bedrock APIs the adapter relies on,
// backed by the AWS SDK or a stub implementation.
type Client interface {
	// ListModels returns the foundation models visible to the credentials.
	ListModels(ctx context.Context) ([]ModelSummary, error)
	// GetModel fetches the descriptor of a single foundation model.
	GetModel(ctx context.Context, modelID string) (ModelDetails, error)
	// Converse sends a single user prompt to a model and returns its reply.
	Converse(ctx context.Context, req ConverseRequest) (ConverseResponse, error)
}

// Credentials identifies an AWS principal and the region its Bedrock calls go to.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	// SessionToken is only set for temporary security credentials.
	SessionToken string
}

// ModelSummary describes a foundation model as listed by Bedrock.
type ModelSummary struct {
	ID               string
	Name             string
	Provider         string
	OutputModalities []string
}

// ModelDetails is the full descriptor returned for a single model.
type ModelDetails struct {
	ModelSummary
	ARN                string
	InputModalities    []string
	StreamingSupported bool
}

// SupportsOutput reports whether the model declares the given output modality.
func (m ModelSummary) SupportsOutput(modality string) bool {
	for _, candidate := range m.OutputModalities {
		if candidate == modality {
			return true
		}
	}
	return false
}

// InferenceConfig carries the optional generation parameters of a Converse
// call. Nil fields are left to the model defaults.
type InferenceConfig struct {
	Temperature   *float64
	TopP          *float64
	MaxTokens     *int
	StopSequences []string
}

// ConverseRequest is a single-turn text prompt.
type ConverseRequest struct {
	ModelID   string
	Prompt    string
	Inference InferenceConfig
}

// ConverseResponse is the text reply of a model.
type ConverseResponse struct {
	Text         string
	StopReason   string
	InputTokens  int
	OutputTokens int
}
