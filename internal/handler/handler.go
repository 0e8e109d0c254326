// Package handler registers Amazon Bedrock engines and models on behalf of the
// host and answers predictions with the registered models.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/adapterinfo"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/bedrock"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/settings"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/telemetry"
)

// Keys added to the stored model arguments.
const (
	ArgTarget             = "target"
	ArgHandlerModelParams = "handler_model_params"
)

// Describe attributes.
const (
	AttributeArgs     = "args"
	AttributeMetadata = "metadata"
)

// CreateModelRequest carries a model registration. A nil Using means the
// statement had no USING clause.
type CreateModelRequest struct {
	Name   string
	Engine string
	Target string
	Using  map[string]any
}

// Prediction holds one value per input row under the model's target column.
// Rows skipped for lack of input have an empty value.
type Prediction struct {
	Target   string
	Values   []string
	Metadata map[string]string
}

// Handler validates registrations and serves predictions.
type Handler struct {
	log      *slog.Logger
	clients  bedrock.ClientFactory
	verifier *settings.Verifier
	store    *Store
	metrics  *telemetry.Recorder
}

// New returns a Handler building its Bedrock clients with clients.
func New(clients bedrock.ClientFactory, logger *slog.Logger, metrics *telemetry.Recorder) *Handler {
	if clients == nil {
		panic("handler: client factory must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = telemetry.NewRecorder(logger)
	}
	clients = instrument(clients, metrics)
	return &Handler{
		log:      logger.With("component", "handler"),
		clients:  clients,
		verifier: settings.NewVerifier(clients, logger),
		store:    NewStore(),
		metrics:  metrics,
	}
}

// Store exposes the registrations kept by the handler.
func (h *Handler) Store() *Store { return h.store }

// CreateEngine validates the engine credentials and registers the engine.
// Argument names are matched case-insensitively.
func (h *Handler) CreateEngine(ctx context.Context, name string, args map[string]any) (*Engine, error) {
	e, err := h.createEngine(ctx, name, args)
	h.metrics.RecordValidation(string(KindEngine), outcome(err))
	return e, err
}

func (h *Handler) createEngine(ctx context.Context, name string, args map[string]any) (*Engine, error) {
	values, err := NormalizeEngineArgs(args)
	if err != nil {
		return nil, err
	}
	cfg, err := settings.NewEngineConfig(ctx, values, h.verifier)
	if err != nil {
		return nil, err
	}
	e, err := h.store.PutEngine(name, cfg)
	if err != nil {
		return nil, err
	}
	h.log.Info("engine created", "engine", name, "id", e.ID, "credentials", cfg)
	return e, nil
}

// CreateModel validates the model parameters against the engine and stores
// them with their serialized form.
func (h *Handler) CreateModel(ctx context.Context, req CreateModelRequest) (*Model, error) {
	m, err := h.createModel(ctx, req)
	h.metrics.RecordValidation(string(KindModel), outcome(err))
	return m, err
}

func (h *Handler) createModel(ctx context.Context, req CreateModelRequest) (*Model, error) {
	if req.Using == nil {
		return nil, fmt.Errorf("handler: %w; refer to its documentation for more details", ErrMissingUsing)
	}
	engine, ok := h.store.Engine(req.Engine)
	if !ok {
		return nil, notFound(ErrEngineNotFound, req.Engine)
	}

	cfg, err := settings.NewModelConfig(ctx, req.Using, engine.Config.Credentials(), h.verifier)
	if err != nil {
		return nil, err
	}

	params := cfg.Dump()
	h.log.Info("saving model configuration", "model", req.Name, "handler_model_params", params)

	args := make(map[string]any, len(req.Using)+2)
	for k, v := range req.Using {
		args[k] = v
	}
	args[ArgTarget] = req.Target
	args[ArgHandlerModelParams] = params

	return h.store.PutModel(req.Name, Model{
		Engine: req.Engine,
		Target: req.Target,
		Args:   args,
		Config: cfg,
	})
}

// Predict builds one prompt per row and sends each to the model through the
// Converse API. Rows whose referenced columns are all empty are not sent.
func (h *Handler) Predict(ctx context.Context, model string, rows []map[string]any) (pred Prediction, err error) {
	m, ok := h.store.Model(model)
	if !ok {
		return Prediction{}, notFound(ErrModelNotFound, model)
	}
	cfg := m.Config
	mode, ok := settings.LookupMode(cfg.Mode)
	if !ok {
		return Prediction{}, fmt.Errorf("handler: model %q uses unknown mode %q", model, cfg.Mode)
	}

	metrics := h.metrics.StartPrediction(model, cfg.ModelID, len(rows))
	defer func() { metrics.Finish(err) }()

	prompts, err := mode.Prompts(cfg, rows)
	if err != nil {
		return Prediction{}, err
	}

	client, err := h.clients(ctx, cfg.ConnectionArgs)
	if err != nil {
		return Prediction{}, fmt.Errorf("handler: create bedrock client: %w", err)
	}

	values := make([]string, len(prompts))
	inference := cfg.InferenceConfig()
	for i, prompt := range prompts {
		if prompt == "" {
			metrics.RecordSkipped()
			continue
		}
		if err := ctx.Err(); err != nil {
			return Prediction{}, err
		}
		resp, err := client.Converse(ctx, bedrock.ConverseRequest{
			ModelID:   cfg.ModelID,
			Prompt:    prompt,
			Inference: inference,
		})
		if err != nil {
			return Prediction{}, fmt.Errorf("handler: predict row %d: %w", i, err)
		}
		metrics.RecordCompletion(resp.InputTokens, resp.OutputTokens)
		values[i] = resp.Text
	}

	return Prediction{
		Target:   m.Target,
		Values:   values,
		Metadata: adapterinfo.PredictionMetadata(cfg.ModelID, cfg.Mode),
	}, nil
}

// Describe reports the stored arguments or the Bedrock metadata of a model.
// Any other attribute lists the attributes that can be described.
func (h *Handler) Describe(ctx context.Context, model, attribute string) (map[string]any, error) {
	m, ok := h.store.Model(model)
	if !ok {
		return nil, notFound(ErrModelNotFound, model)
	}

	switch attribute {
	case AttributeArgs:
		out := make(map[string]any, len(m.Args))
		for k, v := range m.Args {
			if k == ArgHandlerModelParams {
				continue
			}
			out[k] = v
		}
		return out, nil

	case AttributeMetadata:
		return h.metadata(ctx, m.Config), nil

	default:
		return map[string]any{"tables": []string{AttributeArgs, AttributeMetadata}}, nil
	}
}

// metadata fetches the model descriptor. Lookup failures are reported inside
// the result rather than failing the call.
func (h *Handler) metadata(ctx context.Context, cfg settings.ModelConfig) map[string]any {
	client, err := h.clients(ctx, cfg.ConnectionArgs)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	details, err := client.GetModel(ctx, cfg.ModelID)
	if err != nil {
		h.log.Warn("model metadata lookup failed", "model_id", cfg.ModelID, "error", err)
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{
		"modelArn":                   details.ARN,
		"modelId":                    details.ID,
		"modelName":                  details.Name,
		"providerName":               details.Provider,
		"inputModalities":            details.InputModalities,
		"outputModalities":           details.OutputModalities,
		"responseStreamingSupported": details.StreamingSupported,
	}
}

// DropModel removes a model registration.
func (h *Handler) DropModel(name string) error {
	if err := h.store.DeleteModel(name); err != nil {
		return err
	}
	h.log.Info("model dropped", "model", name)
	return nil
}

// DropEngine removes an engine registration that no model uses.
func (h *Handler) DropEngine(name string) error {
	if err := h.store.DeleteEngine(name); err != nil {
		return err
	}
	h.log.Info("engine dropped", "engine", name)
	return nil
}

// NormalizeEngineArgs lower-cases engine argument names, as CreateEngine does.
// Names that collide once lower-cased are rejected.
func NormalizeEngineArgs(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for k, v := range args {
		key := strings.ToLower(k)
		if _, dup := out[key]; dup {
			return nil, &settings.ValidationError{
				Kind:    settings.ErrSchema,
				Field:   key,
				Message: fmt.Sprintf("parameter %q is given more than once", key),
			}
		}
		out[key] = v
	}
	return out, nil
}
