package handlers

import (
	"net/http"

	"sycoraxai/voicebroker/pkg/api"
	"sycoraxai/voicebroker/pkg/broker"
	"sycoraxai/voicebroker/pkg/providers"
)

// ConnectionDetails handles POST /connectionDetails. The response body is
// the provider payload as issued. An empty body is treated as {}.
func (h *Handlers) ConnectionDetails(w http.ResponseWriter, r *http.Request) {
	var req broker.Request
	if err := api.DecodeOptionalJSON(r, h.opts.MaxBodyBytes, &req); err != nil {
		api.WriteError(w, err)
		return
	}

	res, err := h.broker.Issue(r.Context(), req)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	_ = api.WriteJSONResponse(w, http.StatusOK, res.Payload)
}

// TokenResponse is the body of a successful legacy token call.
type TokenResponse struct {
	Provider string `json:"provider"`
	Token    string `json:"token"`
}

// Token handles POST /token, the legacy TargetAI token endpoint.
func (h *Handlers) Token(w http.ResponseWriter, r *http.Request) {
	tok, err := h.broker.LegacyToken(r.Context())
	if err != nil {
		api.WriteError(w, err)
		return
	}

	_ = api.WriteJSONResponse(w, http.StatusOK, TokenResponse{
		Provider: providers.TargetAI,
		Token:    tok,
	})
}
