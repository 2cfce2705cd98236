package issuer

import (
	"context"

	"sycoraxai/voicebroker/pkg/providers"
)

// TargetAIExpiresIn is the lifetime advertised for TargetAI sessions.
const TargetAIExpiresIn = 1800

// TargetAI assembles connection details from the stored settings. It makes
// no network call and does not check the API key.
type TargetAI struct{}

// NewTargetAI creates the TargetAI strategy.
func NewTargetAI() *TargetAI {
	return &TargetAI{}
}

// Provider implements Strategy.
func (*TargetAI) Provider() string {
	return providers.TargetAI
}

// Issue implements Strategy.
func (*TargetAI) Issue(ctx context.Context, req Request, cfg providers.Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Work on a copy so the language override never leaks into the config.
	cfg = cfg.Clone()
	if cfg == nil {
		cfg = providers.Config{}
	}

	dataInput := cfg["dataInput"]
	if req.Language != "" {
		m, ok := dataInput.(map[string]any)
		if !ok || m == nil {
			m = map[string]any{}
		}
		m["language"] = req.Language
		dataInput = m
	}

	return result(providers.TargetAI, TargetAIExpiresIn, map[string]any{
		"server_url":          cfg["tos_base_url"],
		"agent_uuid":          cfg["agent_uuid"],
		"user_id":             req.CallerID,
		"expires_in":          TargetAIExpiresIn,
		"allowedResponses":    cfg["allowedResponses"],
		"emitRawAudioSamples": cfg["emitRawAudioSamples"],
		"messages":            cfg["messages"],
		"dataInput":           dataInput,
		"ok":                  true,
	}), nil
}
