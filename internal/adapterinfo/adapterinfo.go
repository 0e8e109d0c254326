package adapterinfo

// Metadata captures static identifiers for the adapter. Centralising the values
// makes it easy to clone this repository for new adapters.
type Metadata struct {
	Name        string
	BinaryName  string
	Slug        string
	Description string
	GeneratorID string
}

// Info describes the current adapter.
var Info = Metadata{
	Name:        "Nupi Amazon Bedrock LLM",
	BinaryName:  "plugin-llm-bedrock",
	Slug:        "llm-bedrock",
	Description: "Validates Amazon Bedrock engines and models and answers prompts through the Converse API.",
	GeneratorID: "llm-bedrock",
}

// PredictionMetadata produces the standard metadata payload attached
// to prediction responses.
func PredictionMetadata(modelID, mode string) map[string]string {
	return map[string]string{
		"generator": Info.GeneratorID,
		"model_id":  modelID,
		"mode":      mode,
	}
}
