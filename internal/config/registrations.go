package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registrations is a declarative engine + models file, as consumed by bedrockctl.
//
//	engine:
//	  aws_access_key_id: ${AWS_ACCESS_KEY_ID}
//	  aws_secret_access_key: ${AWS_SECRET_ACCESS_KEY}
//	  region_name: us-east-1
//	models:
//	  - name: answers
//	    target: answer
//	    using:
//	      question_column: question
type Registrations struct {
	Engine map[string]any      `yaml:"engine"`
	Models []ModelRegistration `yaml:"models"`
}

// ModelRegistration describes one model created on the file's engine.
type ModelRegistration struct {
	Name   string         `yaml:"name"`
	Target string         `yaml:"target"`
	Using  map[string]any `yaml:"using"`
}

// LoadRegistrations reads a YAML registrations file. ${VAR} and $VAR
// references inside string values are expanded from the process environment
// after parsing, so secrets can stay out of the file and an expanded value
// never changes the document structure.
func LoadRegistrations(path string) (Registrations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Registrations{}, fmt.Errorf("config: load registrations: %w", err)
	}
	return ParseRegistrations(string(data))
}

// ParseRegistrations decodes a registrations document and expands environment
// references in its string values.
func ParseRegistrations(doc string) (Registrations, error) {
	var regs Registrations
	if err := yaml.Unmarshal([]byte(doc), &regs); err != nil {
		return Registrations{}, fmt.Errorf("config: parse registrations: %w", err)
	}
	regs.expandEnv()
	if err := regs.Validate(); err != nil {
		return Registrations{}, err
	}
	return regs, nil
}

func (r *Registrations) expandEnv() {
	expandMap(r.Engine)
	for i := range r.Models {
		m := &r.Models[i]
		m.Name = os.ExpandEnv(m.Name)
		m.Target = os.ExpandEnv(m.Target)
		expandMap(m.Using)
	}
}

func expandMap(values map[string]any) {
	for k, v := range values {
		values[k] = expandValue(v)
	}
}

func expandValue(v any) any {
	switch t := v.(type) {
	case string:
		return os.ExpandEnv(t)
	case []any:
		for i := range t {
			t[i] = expandValue(t[i])
		}
		return t
	case map[string]any:
		expandMap(t)
		return t
	default:
		return v
	}
}

// Validate checks the file structure. Parameter-level validation is left to
// the engine and model validators.
func (r Registrations) Validate() error {
	if len(r.Engine) == 0 {
		return fmt.Errorf("config: registrations: engine section is required")
	}
	seen := make(map[string]struct{}, len(r.Models))
	for i, m := range r.Models {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return fmt.Errorf("config: registrations: models[%d]: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("config: registrations: duplicate model name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
