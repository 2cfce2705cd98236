package handlers

import (
	"net/http"

	"sycoraxai/voicebroker/pkg/api"
)

// VoiceOffer handles POST /run/voice/offer by relaying the body and the
// caller's Authorization header to TargetAI. The upstream status, body and
// Content-Type are returned unchanged.
func (h *Handlers) VoiceOffer(w http.ResponseWriter, r *http.Request) {
	body, err := api.ReadBody(r, h.signaling.MaxBodyBytes())
	if err != nil {
		api.WriteError(w, err)
		return
	}

	resp, err := h.signaling.Forward(r.Context(), r.Header.Get("Authorization"), body)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}
