package handlers

import (
	"net/http"

	"sycoraxai/voicebroker/pkg/api"
	"sycoraxai/voicebroker/pkg/providers"
	"sycoraxai/voicebroker/pkg/store"
)

// ReadConfig handles GET /read_config. Secrets are masked unless the server
// was started with store.expose_secrets.
func (h *Handlers) ReadConfig(w http.ResponseWriter, r *http.Request) {
	doc := h.broker.ReadConfig(r.Context(), !h.opts.ExposeSecrets)
	_ = api.WriteJSONResponse(w, http.StatusOK, doc)
}

// StoreConfig handles POST /store_config. The body replaces the whole
// stored document.
func (h *Handlers) StoreConfig(w http.ResponseWriter, r *http.Request) {
	body, err := api.ReadBody(r, h.opts.MaxBodyBytes)
	if err != nil {
		h.recordWrite("invalid")
		api.WriteError(w, err)
		return
	}

	doc, err := store.ParseDocument(body)
	if err != nil {
		h.recordWrite("invalid")
		api.WriteError(w, providers.Invalid(err.Error(), err))
		return
	}

	if err := h.broker.StoreConfig(r.Context(), doc); err != nil {
		if api.IsInvalid(err) {
			h.recordWrite("invalid")
			api.WriteError(w, err)
			return
		}
		h.recordWrite("error")
		h.logger.ErrorContext(r.Context(), "failed to store provider configuration", "error", err)
		api.WriteError(w, err)
		return
	}

	h.recordWrite("success")
	h.logger.InfoContext(r.Context(), "provider configuration replaced", "providers", len(doc))
	_ = api.WriteJSONResponse(w, http.StatusOK, api.MessageResponse{
		Message: "Configuration stored successfully",
	})
}

func (h *Handlers) recordWrite(outcome string) {
	if h.opts.Writes != nil {
		h.opts.Writes.RecordConfigWrite(outcome)
	}
}
