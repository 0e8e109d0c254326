package settings

import (
	"fmt"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/bedrock"
)

type defaultMode struct{}

func (defaultMode) Name() string { return ModeDefault }

func (defaultMode) DefaultModelID() string { return DefaultTextModelID() }

func (defaultMode) CheckModel(details bedrock.ModelDetails) error {
	if details.SupportsOutput(bedrock.ModalityText) {
		return nil
	}
	return newError(ErrModelCapability, FieldModelID, fmt.Sprintf(
		"model %s does not support text generation, which the %s mode requires",
		details.ID, ModeDefault,
	))
}

// ValidateParams requires either prompt_template, or question_column with an
// optional context_column.
func (defaultMode) ValidateParams(cfg ModelConfig) error {
	switch {
	case cfg.PromptTemplate == nil && cfg.QuestionColumn == nil:
		return newError(ErrConflictingParameters, FieldPromptTemplate,
			"either prompt_template or question_column with an optional context_column must be provided for the default mode")
	case cfg.PromptTemplate != nil && cfg.QuestionColumn != nil:
		return newError(ErrConflictingParameters, FieldPromptTemplate,
			"only one of prompt_template or question_column with an optional context_column can be provided for the default mode")
	case cfg.ContextColumn != nil && cfg.QuestionColumn == nil:
		return newError(ErrDependentParameter, FieldContextColumn,
			"context_column can only be provided with question_column for the default mode")
	}
	return nil
}

func (defaultMode) Prompts(cfg ModelConfig, rows []map[string]any) ([]string, error) {
	if cfg.PromptTemplate != nil {
		return templatePrompts(*cfg.PromptTemplate, rows)
	}
	if cfg.QuestionColumn == nil {
		return nil, fmt.Errorf("settings: model has neither prompt_template nor question_column")
	}
	return questionPrompts(*cfg.QuestionColumn, cfg.ContextColumn, rows)
}
