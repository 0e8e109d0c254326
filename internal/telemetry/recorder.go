package telemetry

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nupi_llm_bedrock"

// OutcomeOK marks a successful validation. Failed validations use the name
// of the failure kind as outcome.
const OutcomeOK = "ok"

// Recorder tracks adapter-level telemetry. Totals are kept in atomics for
// Snapshot; the same events are exported through a Prometheus registry.
type Recorder struct {
	log *slog.Logger

	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	remoteCalls *prometheus.HistogramVec
	predictions *prometheus.CounterVec
	prompts     *prometheus.CounterVec
	tokens      *prometheus.CounterVec

	enginesValidated   atomic.Uint64
	modelsValidated    atomic.Uint64
	validationFailures atomic.Uint64
	totalPredictions   atomic.Uint64
	activePredictions  atomic.Int64
	promptsSent        atomic.Uint64
	promptsSkipped     atomic.Uint64
	remoteCallsTotal   atomic.Uint64
	remoteCallErrors   atomic.Uint64
	inputTokens        atomic.Uint64
	outputTokens       atomic.Uint64
}

// Snapshot captures cumulative metrics recorded so far.
type Snapshot struct {
	EnginesValidated   uint64
	ModelsValidated    uint64
	ValidationFailures uint64
	TotalPredictions   uint64
	ActivePredictions  int64
	PromptsSent        uint64
	PromptsSkipped     uint64
	RemoteCalls        uint64
	RemoteCallErrors   uint64
	InputTokens        uint64
	OutputTokens       uint64
}

// NewRecorder constructs a Recorder with its own Prometheus registry.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		log:      logger.With("component", "telemetry.Recorder"),
		registry: registry,
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Engine and model config validations by outcome.",
		}, []string{"kind", "outcome"}),
		remoteCalls: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_duration_seconds",
			Help:      "Latency of Amazon Bedrock API calls.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"op", "is_success"}),
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Prediction batches by model and result.",
		}, []string{"model", "is_success"}),
		prompts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompts_total",
			Help:      "Prompts sent to Bedrock or skipped for empty input rows.",
		}, []string{"model", "state"}),
		tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Tokens consumed by Converse calls.",
		}, []string{"model", "direction"}),
	}
}

// Registry exposes the Prometheus registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Snapshot returns an immutable view of the recorder totals.
func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	return Snapshot{
		EnginesValidated:   r.enginesValidated.Load(),
		ModelsValidated:    r.modelsValidated.Load(),
		ValidationFailures: r.validationFailures.Load(),
		TotalPredictions:   r.totalPredictions.Load(),
		ActivePredictions:  r.activePredictions.Load(),
		PromptsSent:        r.promptsSent.Load(),
		PromptsSkipped:     r.promptsSkipped.Load(),
		RemoteCalls:        r.remoteCallsTotal.Load(),
		RemoteCallErrors:   r.remoteCallErrors.Load(),
		InputTokens:        r.inputTokens.Load(),
		OutputTokens:       r.outputTokens.Load(),
	}
}

// RecordValidation counts one engine or model validation. kind is "engine"
// or "model"; outcome is OutcomeOK or the name of the failure.
func (r *Recorder) RecordValidation(kind, outcome string) {
	if r == nil {
		return
	}
	r.validations.WithLabelValues(kind, outcome).Inc()
	if outcome != OutcomeOK {
		r.validationFailures.Add(1)
		r.log.Debug("validation failed", "kind", kind, "outcome", outcome)
		return
	}
	switch kind {
	case "engine":
		r.enginesValidated.Add(1)
	case "model":
		r.modelsValidated.Add(1)
	}
}

// ObserveRemoteCall records the latency and result of a Bedrock API call.
func (r *Recorder) ObserveRemoteCall(op string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.remoteCallsTotal.Add(1)
	if err != nil {
		r.remoteCallErrors.Add(1)
	}
	r.remoteCalls.WithLabelValues(op, successLabel(err)).Observe(d.Seconds())
}

// PredictionMetrics accumulates statistics for one prediction batch.
type PredictionMetrics struct {
	recorder *Recorder
	log      *slog.Logger

	model   string
	started time.Time
	rows    int
	sent    int
	skipped int
	input   int
	output  int
	closed  atomic.Bool
}

// StartPrediction initialises a PredictionMetrics instance bound to the recorder.
func (r *Recorder) StartPrediction(model, modelID string, rows int) *PredictionMetrics {
	if r == nil {
		return nil
	}
	r.totalPredictions.Add(1)
	r.activePredictions.Add(1)

	return &PredictionMetrics{
		recorder: r,
		log:      r.log.With("model", model, "model_id", modelID),
		model:    model,
		started:  time.Now(),
		rows:     rows,
	}
}

// RecordSkipped counts an input row that produced no prompt.
func (p *PredictionMetrics) RecordSkipped() {
	if p == nil {
		return
	}
	p.skipped++
	p.recorder.promptsSkipped.Add(1)
	p.recorder.prompts.WithLabelValues(p.model, "skipped").Inc()
}

// RecordCompletion counts a prompt answered by Bedrock.
func (p *PredictionMetrics) RecordCompletion(inputTokens, outputTokens int) {
	if p == nil {
		return
	}
	p.sent++
	p.recorder.promptsSent.Add(1)
	p.recorder.prompts.WithLabelValues(p.model, "sent").Inc()

	if inputTokens > 0 {
		p.input += inputTokens
		p.recorder.inputTokens.Add(uint64(inputTokens))
		p.recorder.tokens.WithLabelValues(p.model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		p.output += outputTokens
		p.recorder.outputTokens.Add(uint64(outputTokens))
		p.recorder.tokens.WithLabelValues(p.model, "output").Add(float64(outputTokens))
	}
}

// Finish logs a summary and updates active prediction counters.
func (p *PredictionMetrics) Finish(err error) {
	if p == nil {
		return
	}
	if !p.closed.CompareAndSwap(false, true) {
		return
	}

	defer p.recorder.activePredictions.Add(-1)
	p.recorder.predictions.WithLabelValues(p.model, successLabel(err)).Inc()

	args := []any{
		"duration_ms", time.Since(p.started).Milliseconds(),
		"rows", p.rows,
		"prompts", p.sent,
		"skipped", p.skipped,
		"input_tokens", p.input,
		"output_tokens", p.output,
	}
	if err != nil {
		p.log.Error("prediction completed with error", append(args, "error", err)...)
		return
	}
	p.log.Info("prediction completed", args...)
}

func successLabel(err error) string {
	if err != nil {
		return "false"
	}
	return "true"
}
