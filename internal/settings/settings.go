// Package settings declares and validates the engine credentials and model
// parameters of the Amazon Bedrock adapter.
//
// Validation is split in two steps. ParseEngineConfig and ParseModelConfig are
// pure: they check the closed parameter schema and the mode rules without any
// network access. Verifier then checks the parsed configs against Bedrock.
// NewEngineConfig and NewModelConfig compose both steps.
package settings

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/bedrock"
)

const (
	// ModeDefault answers a question column or a filled prompt template with a
	// text-generation model.
	ModeDefault = "default"

	defaultTextModelID = "amazon.titan-text-express-v1"
)

// DefaultMode is the mode used when a model config leaves it unset.
func DefaultMode() string { return ModeDefault }

// DefaultTextModelID is the model used by text modes when none is given.
func DefaultTextModelID() string { return defaultTextModelID }

// Mode validates and drives the model configs registered under one mode name.
type Mode interface {
	Name() string
	// DefaultModelID returns the trusted model used when model_id is unset, or
	// "" when the mode requires an explicit model.
	DefaultModelID() string
	// CheckModel rejects models lacking a capability the mode needs.
	CheckModel(details bedrock.ModelDetails) error
	// ValidateParams enforces the mode's parameter combinations. It runs while
	// parsing, so it is checked before the model is looked up remotely.
	ValidateParams(cfg ModelConfig) error
	// Prompts builds one prompt per input row. Rows without usable input
	// yield an empty prompt.
	Prompts(cfg ModelConfig, rows []map[string]any) ([]string, error)
}

var (
	modesMu sync.RWMutex
	modes   = map[string]Mode{}
)

func init() {
	RegisterMode(defaultMode{})
}

// RegisterMode makes a mode available to model configs. It panics when the
// name is empty or already registered.
func RegisterMode(m Mode) {
	modesMu.Lock()
	defer modesMu.Unlock()
	if m == nil || m.Name() == "" {
		panic("settings: RegisterMode with empty mode")
	}
	if _, dup := modes[m.Name()]; dup {
		panic(fmt.Sprintf("settings: mode %q registered twice", m.Name()))
	}
	modes[m.Name()] = m
}

// LookupMode returns the registered mode with the given name.
func LookupMode(name string) (Mode, bool) {
	modesMu.RLock()
	defer modesMu.RUnlock()
	m, ok := modes[name]
	return m, ok
}

// SupportedModes lists the registered mode names in lexical order.
func SupportedModes() []string {
	modesMu.RLock()
	defer modesMu.RUnlock()
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
