package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/bedrock"
)

// ModelConfig holds the parameters of a model registered on an engine.
// Optional parameters are nil when unset.
type ModelConfig struct {
	ModelID        string  `json:"model_id"`
	Mode           string  `json:"mode"`
	PromptTemplate *string `json:"prompt_template"`
	QuestionColumn *string `json:"question_column"`
	ContextColumn  *string `json:"context_column"`

	Temperature *float64 `json:"temperature"`
	TopP        *float64 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`

	// ConnectionArgs are the owning engine's credentials, used for calls made
	// on behalf of this model. They are never serialized.
	ConnectionArgs bedrock.Credentials `json:"-"`

	defaultModelID bool
}

// ParseModelConfig checks values against the model schema, resolves the mode
// and the default model id, and applies the mode's parameter rules. It does
// not contact AWS; see Verifier.VerifyModel.
func ParseModelConfig(values map[string]any) (ModelConfig, error) {
	raw, err := modelSchema.validate(values)
	if err != nil {
		return ModelConfig{}, err
	}
	var cfg ModelConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return ModelConfig{}, &ValidationError{Kind: ErrInvalidParameter, Message: "invalid model parameters", Err: err}
	}

	// An explicit mode, even "" or null, must name a registered mode.
	if _, given := values[FieldMode]; !given {
		cfg.Mode = DefaultMode()
	}
	mode, ok := LookupMode(cfg.Mode)
	if !ok {
		return ModelConfig{}, newError(ErrUnsupportedMode, FieldMode, fmt.Sprintf(
			"mode %q is not supported; the supported modes are: %s",
			cfg.Mode, strings.Join(SupportedModes(), ", "),
		))
	}

	if cfg.ModelID == "" {
		cfg.ModelID = mode.DefaultModelID()
		if cfg.ModelID == "" {
			return ModelConfig{}, newError(ErrInvalidModel, FieldModelID, fmt.Sprintf(
				"model_id is required for the %s mode", cfg.Mode,
			))
		}
		cfg.defaultModelID = true
	}

	if err := mode.ValidateParams(cfg); err != nil {
		return ModelConfig{}, err
	}
	return cfg, nil
}

// NewModelConfig parses values, attaches the engine's connection arguments and
// checks the model against Bedrock.
func NewModelConfig(ctx context.Context, values map[string]any, conn bedrock.Credentials, v *Verifier) (ModelConfig, error) {
	cfg, err := ParseModelConfig(values)
	if err != nil {
		return ModelConfig{}, err
	}
	cfg.ConnectionArgs = conn
	if err := v.VerifyModel(ctx, cfg); err != nil {
		return ModelConfig{}, err
	}
	return cfg, nil
}

// DefaultModelID reports whether ModelID was filled in from the mode default.
// Default models are trusted and never looked up remotely.
func (c ModelConfig) DefaultModelID() bool { return c.defaultModelID }

// InferenceConfig returns the generation parameters for a Converse call.
func (c ModelConfig) InferenceConfig() bedrock.InferenceConfig {
	return bedrock.InferenceConfig{
		Temperature:   c.Temperature,
		TopP:          c.TopP,
		MaxTokens:     c.MaxTokens,
		StopSequences: c.Stop,
	}
}

// Dump serializes the config into the shape the Bedrock invocation expects.
// Inference parameters that are set go under InferenceConfigKey using the
// provider's parameter names; every other field is emitted at the top level,
// unset ones as nil. ConnectionArgs are never included.
func (c ModelConfig) Dump() map[string]any {
	out := make(map[string]any, len(modelFields)+1)
	inference := map[string]any{}
	for _, f := range modelFields {
		value := c.value(f.name)
		if f.inferenceParam() {
			if value != nil {
				inference[f.providerName] = value
			}
			continue
		}
		out[f.name] = value
	}
	out[InferenceConfigKey] = inference
	return out
}

// MarshalJSON encodes the Dump shape.
func (c ModelConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Dump())
}

func (c ModelConfig) value(name string) any {
	switch name {
	case FieldModelID:
		return c.ModelID
	case FieldMode:
		return c.Mode
	case FieldPromptTemplate:
		return deref(c.PromptTemplate)
	case FieldQuestionColumn:
		return deref(c.QuestionColumn)
	case FieldContextColumn:
		return deref(c.ContextColumn)
	case FieldTemperature:
		return deref(c.Temperature)
	case FieldTopP:
		return deref(c.TopP)
	case FieldMaxTokens:
		return deref(c.MaxTokens)
	case FieldStop:
		if c.Stop == nil {
			return nil
		}
		return append([]string{}, c.Stop...)
	}
	return nil
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
