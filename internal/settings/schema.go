package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaBaseURL = "https://schemas.nupi.ai/plugin-llm-bedrock/"

var printer = message.NewPrinter(language.English)

var (
	engineSchema = mustCompileSchema("engine.json", engineFields)
	modelSchema  = mustCompileSchema("model.json", modelFields)
)

// closedSchema validates a parameter mapping against a field table. Names are
// compared case-sensitively and unknown names are rejected.
type closedSchema struct {
	known    map[string]struct{}
	names    []string
	compiled *jsonschema.Schema
}

func mustCompileSchema(name string, fields []field) *closedSchema {
	s, err := compileSchema(name, fields)
	if err != nil {
		panic(fmt.Sprintf("settings: compile %s: %v", name, err))
	}
	return s
}

func compileSchema(name string, fields []field) (*closedSchema, error) {
	properties := make(map[string]any, len(fields))
	required := []string{}
	known := make(map[string]struct{}, len(fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		properties[f.name] = f.property()
		if f.required {
			required = append(required, f.name)
		}
		known[f.name] = struct{}{}
		names = append(names, f.name)
	}

	raw, err := json.Marshal(map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
		"required":             required,
	})
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	url := schemaBaseURL + name
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	return &closedSchema{known: known, names: names, compiled: compiled}, nil
}

// validate checks values against the schema and returns their JSON encoding,
// ready to be decoded into the typed config.
func (s *closedSchema) validate(values map[string]any) ([]byte, error) {
	if values == nil {
		values = map[string]any{}
	}
	if err := s.checkNames(values); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return nil, &ValidationError{Kind: ErrInvalidParameter, Message: "parameters must be plain JSON values", Err: err}
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &ValidationError{Kind: ErrInvalidParameter, Message: "parameters must be plain JSON values", Err: err}
	}
	if err := s.compiled.Validate(doc); err != nil {
		return nil, schemaViolation(err)
	}
	return raw, nil
}

func (s *closedSchema) checkNames(values map[string]any) error {
	var unknown []string
	for key := range values {
		if _, ok := s.known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)

	parts := make([]string, 0, len(unknown))
	for _, key := range unknown {
		msg := fmt.Sprintf("unrecognized parameter %q", key)
		if match, ok := closestMatch(key, s.names); ok {
			msg += fmt.Sprintf(" (did you mean %q?)", match)
		}
		parts = append(parts, msg)
	}
	return &ValidationError{
		Kind:    ErrSchema,
		Field:   unknown[0],
		Message: strings.Join(parts, "; "),
	}
}

type violation struct {
	field  string
	detail string
}

func schemaViolation(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &ValidationError{Kind: ErrInvalidParameter, Message: "invalid parameters", Err: err}
	}

	leaves := collectViolations(verr, nil)
	sort.SliceStable(leaves, func(i, j int) bool { return leaves[i].field < leaves[j].field })

	parts := make([]string, 0, len(leaves))
	for _, v := range leaves {
		if v.field == "" {
			parts = append(parts, v.detail)
			continue
		}
		parts = append(parts, fmt.Sprintf("invalid value for %s: %s", v.field, v.detail))
	}

	out := &ValidationError{Kind: ErrInvalidParameter, Message: strings.Join(parts, "; ")}
	if len(leaves) > 0 {
		out.Field = leaves[0].field
	}
	return out
}

func collectViolations(e *jsonschema.ValidationError, out []violation) []violation {
	if len(e.Causes) == 0 {
		var name string
		if len(e.InstanceLocation) > 0 {
			name = e.InstanceLocation[0]
		}
		return append(out, violation{field: name, detail: e.ErrorKind.LocalizedString(printer)})
	}
	for _, cause := range e.Causes {
		out = collectViolations(cause, out)
	}
	return out
}
