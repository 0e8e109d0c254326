package settings

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/bedrock"
)

// EngineConfig holds the AWS credentials of an engine.
type EngineConfig struct {
	AccessKeyID     string `json:"aws_access_key_id"`
	SecretAccessKey string `json:"aws_secret_access_key"`
	RegionName      string `json:"region_name"`
	// SessionToken is required for temporary security credentials only.
	SessionToken string `json:"aws_session_token,omitempty"`
}

// ParseEngineConfig checks values against the engine schema. It does not
// contact AWS; see Verifier.VerifyEngine.
func ParseEngineConfig(values map[string]any) (EngineConfig, error) {
	raw, err := engineSchema.validate(values)
	if err != nil {
		return EngineConfig{}, err
	}
	var cfg EngineConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return EngineConfig{}, &ValidationError{Kind: ErrInvalidParameter, Message: "invalid engine parameters", Err: err}
	}
	return cfg, nil
}

// NewEngineConfig parses values and confirms the credentials can reach Bedrock.
func NewEngineConfig(ctx context.Context, values map[string]any, v *Verifier) (EngineConfig, error) {
	cfg, err := ParseEngineConfig(values)
	if err != nil {
		return EngineConfig{}, err
	}
	if err := v.VerifyEngine(ctx, cfg); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// Credentials returns the connection arguments handed to models of this engine.
func (c EngineConfig) Credentials() bedrock.Credentials {
	return bedrock.Credentials{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		Region:          c.RegionName,
		SessionToken:    c.SessionToken,
	}
}

// LogValue keeps secrets out of logs.
func (c EngineConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("access_key_id", maskKey(c.AccessKeyID)),
		slog.String("region", c.RegionName),
		slog.Bool("session_token", c.SessionToken != ""),
	)
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
