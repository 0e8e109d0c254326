package handler

import (
	"errors"
	"fmt"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/settings"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/telemetry"
)

var (
	// ErrMissingUsing reports a model created without a USING clause.
	ErrMissingUsing   = errors.New("Amazon Bedrock engine requires a USING clause")
	ErrEngineNotFound = errors.New("engine not found")
	ErrModelNotFound  = errors.New("model not found")
	ErrAlreadyExists  = errors.New("already exists")
	// ErrEngineInUse reports an engine that still has models registered on it.
	ErrEngineInUse = errors.New("engine in use")
)

func notFound(kind error, name string) error {
	return fmt.Errorf("handler: %w: %q", kind, name)
}

func alreadyExists(kind Kind, name string) error {
	return fmt.Errorf("handler: %s %q %w", kind, name, ErrAlreadyExists)
}

func inUse(engine, model string) error {
	return fmt.Errorf("handler: %w: %q is used by model %q", ErrEngineInUse, engine, model)
}

// outcome names the result of a validation for telemetry.
func outcome(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeOK
	case errors.Is(err, settings.ErrSchema):
		return "schema"
	case errors.Is(err, settings.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, settings.ErrCredential):
		return "credential"
	case errors.Is(err, settings.ErrUnsupportedMode):
		return "unsupported_mode"
	case errors.Is(err, settings.ErrInvalidModel):
		return "invalid_model"
	case errors.Is(err, settings.ErrModelCapability):
		return "model_capability"
	case errors.Is(err, settings.ErrConflictingParameters):
		return "conflicting_parameters"
	case errors.Is(err, settings.ErrDependentParameter):
		return "dependent_parameter"
	case errors.Is(err, ErrMissingUsing):
		return "missing_using"
	case errors.Is(err, ErrEngineNotFound):
		return "engine_not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	default:
		return "error"
	}
}
