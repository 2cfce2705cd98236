package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSONResponse writes data as JSON with the given status.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// MessageResponse is the body of successful admin writes.
type MessageResponse struct {
	Message string `json:"message"`
}
