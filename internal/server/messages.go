package server

// CreateEngineRequest registers an engine. Argument names are matched
// case-insensitively.
type CreateEngineRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// CreateEngineResponse identifies the registered engine.
type CreateEngineResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateModelRequest registers a model on an engine. Leaving Using out is
// the same as a statement without a USING clause.
type CreateModelRequest struct {
	Name   string         `json:"name"`
	Engine string         `json:"engine"`
	Target string         `json:"target"`
	Using  map[string]any `json:"using,omitempty"`
}

// CreateModelResponse returns the stored model with its serialized parameters.
type CreateModelResponse struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	HandlerModelParams map[string]any `json:"handler_model_params"`
}

// PredictRequest asks a model for one prediction per row.
type PredictRequest struct {
	Model string           `json:"model"`
	Rows  []map[string]any `json:"rows"`
}

// PredictResponse carries one value per request row.
type PredictResponse struct {
	Target   string            `json:"target"`
	Values   []string          `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// DescribeRequest selects a model attribute. An empty Attribute lists the
// attributes that can be described.
type DescribeRequest struct {
	Model     string `json:"model"`
	Attribute string `json:"attribute,omitempty"`
}

// DescribeResponse holds the described attribute.
type DescribeResponse struct {
	Values map[string]any `json:"values"`
}

// DropRequest names the engine or model to remove.
type DropRequest struct {
	Name string `json:"name"`
}

// DropResponse is empty.
type DropResponse struct{}
