package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/bedrock"
)

// Verifier checks parsed configs against the Bedrock service. Each check
// makes at most one outbound call through a freshly built client.
type Verifier struct {
	clients bedrock.ClientFactory
	log     *slog.Logger
}

// NewVerifier returns a Verifier building its clients with factory.
func NewVerifier(factory bedrock.ClientFactory, logger *slog.Logger) *Verifier {
	if factory == nil {
		panic("settings: verifier requires a client factory")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		clients: factory,
		log:     logger.With("component", "settings.verifier"),
	}
}

// VerifyEngine lists the foundation models with the engine credentials. A
// service error means the credentials were rejected.
func (v *Verifier) VerifyEngine(ctx context.Context, cfg EngineConfig) error {
	client, err := v.clients(ctx, cfg.Credentials())
	if err != nil {
		return fmt.Errorf("settings: create bedrock client: %w", err)
	}

	if _, err := client.ListModels(ctx); err != nil {
		if bedrock.IsAPIError(err) {
			v.log.Warn("engine credentials rejected", "engine", cfg, "error", err)
			return &ValidationError{Kind: ErrCredential, Message: "invalid Amazon Bedrock credentials", Err: err}
		}
		return fmt.Errorf("settings: verify engine: %w", err)
	}

	v.log.Debug("engine credentials verified", "engine", cfg)
	return nil
}

// VerifyModel looks the model up with the config's connection arguments and
// checks it against the mode. Default model ids are trusted and skip the
// lookup.
func (v *Verifier) VerifyModel(ctx context.Context, cfg ModelConfig) error {
	if cfg.DefaultModelID() {
		v.log.Debug("default model id trusted", "model_id", cfg.ModelID, "mode", cfg.Mode)
		return nil
	}

	mode, ok := LookupMode(cfg.Mode)
	if !ok {
		return newError(ErrUnsupportedMode, FieldMode, fmt.Sprintf("mode %q is not supported", cfg.Mode))
	}

	client, err := v.clients(ctx, cfg.ConnectionArgs)
	if err != nil {
		return fmt.Errorf("settings: create bedrock client: %w", err)
	}

	details, err := client.GetModel(ctx, cfg.ModelID)
	if err != nil {
		if bedrock.IsAPIError(err) {
			return &ValidationError{Kind: ErrInvalidModel, Field: FieldModelID, Message: fmt.Sprintf("invalid Amazon Bedrock model ID %q", cfg.ModelID), Err: err}
		}
		return fmt.Errorf("settings: verify model %q: %w", cfg.ModelID, err)
	}

	if err := mode.CheckModel(details); err != nil {
		return err
	}
	v.log.Debug("model verified", "model_id", cfg.ModelID, "mode", cfg.Mode)
	return nil
}
