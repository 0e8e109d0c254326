package bedrock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/adapterinfo"
)

// StubClient serves a fixed model catalogue and echoes prompts without calling AWS.
type StubClient struct {
	log *slog.Logger

	mu     sync.Mutex
	models []ModelDetails
	err    error
	calls  map[string]int
}

// DefaultCatalogue is the model catalogue served by a StubClient when none is given.
func DefaultCatalogue() []ModelDetails {
	return []ModelDetails{
		{
			ModelSummary: ModelSummary{
				ID:               "amazon.titan-text-express-v1",
				Name:             "Titan Text G1 - Express",
				Provider:         "Amazon",
				OutputModalities: []string{ModalityText},
			},
			InputModalities:    []string{ModalityText},
			StreamingSupported: true,
		},
		{
			ModelSummary: ModelSummary{
				ID:               "anthropic.claude-3-haiku-20240307-v1:0",
				Name:             "Claude 3 Haiku",
				Provider:         "Anthropic",
				OutputModalities: []string{ModalityText},
			},
			InputModalities:    []string{ModalityText, "IMAGE"},
			StreamingSupported: true,
		},
		{
			ModelSummary: ModelSummary{
				ID:               "amazon.titan-embed-text-v2:0",
				Name:             "Titan Text Embeddings V2",
				Provider:         "Amazon",
				OutputModalities: []string{"EMBEDDING"},
			},
			InputModalities: []string{ModalityText},
		},
		{
			ModelSummary: ModelSummary{
				ID:               "stability.stable-diffusion-xl-v1",
				Name:             "SDXL 1.0",
				Provider:         "Stability AI",
				OutputModalities: []string{"IMAGE"},
			},
			InputModalities: []string{ModalityText, "IMAGE"},
		},
	}
}

// NewStubClient returns a Client serving models, or DefaultCatalogue when empty.
func NewStubClient(logger *slog.Logger, models ...ModelDetails) *StubClient {
	if logger == nil {
		logger = slog.Default()
	}
	if len(models) == 0 {
		models = DefaultCatalogue()
	} else {
		models = append([]ModelDetails(nil), models...)
	}
	for i := range models {
		if models[i].ARN == "" {
			models[i].ARN = "arn:aws:bedrock:stub::foundation-model/" + models[i].ID
		}
	}
	return &StubClient{
		log: logger.With(
			"component", "bedrock.stub",
			"adapter", adapterinfo.Info.Slug,
		),
		models: models,
		calls:  make(map[string]int),
	}
}

// FailWith makes every subsequent call return err. A nil err restores normal behaviour.
func (s *StubClient) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many times the named operation was invoked.
func (s *StubClient) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *StubClient) begin(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	return s.err
}

// ListModels implements the Client interface.
func (s *StubClient) ListModels(ctx context.Context) ([]ModelSummary, error) {
	if err := s.begin("ListFoundationModels"); err != nil {
		return nil, err
	}
	out := make([]ModelSummary, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, m.ModelSummary)
	}
	s.log.Debug("stub list models", "count", len(out))
	return out, nil
}

// GetModel implements the Client interface.
func (s *StubClient) GetModel(ctx context.Context, modelID string) (ModelDetails, error) {
	if err := s.begin("GetFoundationModel"); err != nil {
		return ModelDetails{}, err
	}
	if m, ok := s.lookup(modelID); ok {
		return m, nil
	}
	return ModelDetails{}, notFound("GetFoundationModel", modelID)
}

// Converse implements the Client interface.
func (s *StubClient) Converse(ctx context.Context, req ConverseRequest) (ConverseResponse, error) {
	if err := s.begin("Converse"); err != nil {
		return ConverseResponse{}, err
	}
	if _, ok := s.lookup(req.ModelID); !ok {
		return ConverseResponse{}, notFound("Converse", req.ModelID)
	}
	text := fmt.Sprintf("[stub:%s] %s", req.ModelID, req.Prompt)
	s.log.Debug("stub converse", "model_id", req.ModelID, "chars", len(req.Prompt))
	return ConverseResponse{
		Text:         text,
		StopReason:   "end_turn",
		InputTokens:  len(req.Prompt),
		OutputTokens: len(text),
	}, nil
}

func (s *StubClient) lookup(modelID string) (ModelDetails, bool) {
	for _, m := range s.models {
		if m.ID == modelID || m.ARN == modelID {
			return m, true
		}
	}
	return ModelDetails{}, false
}

func notFound(op, modelID string) error {
	return &APIError{
		Op:      op,
		Code:    "ResourceNotFoundException",
		Message: fmt.Sprintf("The model %s does not exist", modelID),
	}
}
