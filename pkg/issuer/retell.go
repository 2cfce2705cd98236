package issuer

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"sycoraxai/voicebroker/pkg/providers"
	"sycoraxai/voicebroker/pkg/telemetry/tracing"
)

// DefaultRetellBaseURL is used when the stored config has no base_url.
const DefaultRetellBaseURL = "https://api.retellai.com"

const retellCreateWebCallPath = "/v2/create-web-call"

// Retell obtains a web-call access token from the Retell API.
type Retell struct {
	client *Client
}

// NewRetell creates the Retell strategy.
func NewRetell(client *Client) *Retell {
	return &Retell{client: client}
}

// Provider implements Strategy.
func (*Retell) Provider() string {
	return providers.Retell
}

type retellWebCall struct {
	AccessToken string `json:"access_token"`
	CallID      string `json:"call_id"`
	AgentID     string `json:"agent_id"`
}

// Issue implements Strategy.
func (r *Retell) Issue(ctx context.Context, req Request, cfg providers.Config) (*Result, error) {
	if !cfg.Configured(providers.FieldAPIKey) {
		return nil, providers.NotConfigured(providers.Retell, providers.FieldAPIKey)
	}
	if !cfg.Configured(providers.FieldAgentID) {
		return nil, providers.NotConfigured(providers.Retell, providers.FieldAgentID)
	}

	agentID := cfg.String(providers.FieldAgentID)
	baseURL := cfg.String(providers.FieldBaseURL)
	if baseURL == "" {
		baseURL = DefaultRetellBaseURL
	}

	ctx, span := tracing.Start(ctx, "issuer.retell.create_web_call")
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrAgentID, agentID))

	var call retellWebCall
	err := r.client.PostJSON(ctx,
		strings.TrimRight(baseURL, "/")+retellCreateWebCallPath,
		map[string]string{"Authorization": "Bearer " + cfg.String(providers.FieldAPIKey)},
		cfg.Duration("timeout", 0),
		map[string]string{"agent_id": agentID},
		&call,
	)
	if err != nil {
		tracing.SetError(span, err)
		return nil, providers.Upstream(providers.Retell, "Failed to create Retell web call", err)
	}
	if call.AccessToken == "" {
		err := errors.New("response did not contain an access token")
		tracing.SetError(span, err)
		return nil, providers.Upstream(providers.Retell, "Failed to create Retell web call", err)
	}

	payload := map[string]any{
		"access_token": call.AccessToken,
		"agent_id":     agentID,
		"user_id":      req.CallerID,
	}
	if call.CallID != "" {
		payload["call_id"] = call.CallID
	}
	return result(providers.Retell, 0, payload), nil
}
