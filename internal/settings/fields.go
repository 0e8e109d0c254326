package settings

import "math"

// Field names accepted in engine and model parameter mappings.
const (
	FieldAccessKeyID     = "aws_access_key_id"
	FieldSecretAccessKey = "aws_secret_access_key"
	FieldRegionName      = "region_name"
	FieldSessionToken    = "aws_session_token"

	FieldModelID        = "model_id"
	FieldMode           = "mode"
	FieldPromptTemplate = "prompt_template"
	FieldQuestionColumn = "question_column"
	FieldContextColumn  = "context_column"
	FieldTemperature    = "temperature"
	FieldTopP           = "top_p"
	FieldMaxTokens      = "max_tokens"
	FieldStop           = "stop"
)

// InferenceConfigKey holds the inference parameters in a serialized model config.
const InferenceConfigKey = "inference_config"

type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindInteger
	kindStringList
)

// field declares one accepted parameter. The engine and model schemas are
// generated from these tables.
type field struct {
	name     string
	kind     valueKind
	required bool
	// nonEmpty rejects "" for an optional string. null still means unset.
	nonEmpty bool
	min, max *float64
	// providerName marks an inference parameter and holds the name Bedrock
	// uses for it. Handler-level fields leave it empty.
	providerName string
}

func (f field) inferenceParam() bool { return f.providerName != "" }

func bound(v float64) *float64 { return &v }

var engineFields = []field{
	{name: FieldAccessKeyID, kind: kindString, required: true},
	{name: FieldSecretAccessKey, kind: kindString, required: true},
	{name: FieldRegionName, kind: kindString, required: true},
	{name: FieldSessionToken, kind: kindString},
}

var modelFields = []field{
	{name: FieldModelID, kind: kindString, nonEmpty: true},
	{name: FieldMode, kind: kindString},
	{name: FieldPromptTemplate, kind: kindString},
	{name: FieldQuestionColumn, kind: kindString},
	{name: FieldContextColumn, kind: kindString},
	{name: FieldTemperature, kind: kindNumber, min: bound(0), max: bound(1), providerName: "temperature"},
	{name: FieldTopP, kind: kindNumber, min: bound(0), max: bound(1), providerName: "topP"},
	{name: FieldMaxTokens, kind: kindInteger, min: bound(1), max: bound(math.MaxInt32), providerName: "maxTokens"},
	{name: FieldStop, kind: kindStringList, providerName: "stopSequences"},
}

// property renders the JSON Schema of a single field. Optional fields accept
// null, which is treated the same as leaving them out.
func (f field) property() map[string]any {
	prop := map[string]any{}

	var typ string
	switch f.kind {
	case kindString:
		typ = "string"
		if f.required || f.nonEmpty {
			prop["minLength"] = 1
		}
	case kindNumber:
		typ = "number"
	case kindInteger:
		typ = "integer"
	case kindStringList:
		typ = "array"
		prop["items"] = map[string]any{"type": "string"}
	}

	if f.required {
		prop["type"] = typ
	} else {
		prop["type"] = []string{typ, "null"}
	}
	if f.min != nil {
		prop["minimum"] = *f.min
	}
	if f.max != nil {
		prop["maximum"] = *f.max
	}
	return prop
}
