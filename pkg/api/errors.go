package api

import (
	"errors"
	"net/http"

	"sycoraxai/voicebroker/pkg/providers"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	// Error is the short error title.
	Error string `json:"error"`

	// Message is the detail for the caller.
	Message string `json:"message,omitempty"`

	// Detail carries the transport diagnostic when an upstream was
	// unreachable.
	Detail string `json:"detail,omitempty"`

	// SupportedProviders lists the valid ids for unsupported providers.
	SupportedProviders []string `json:"supported_providers,omitempty"`
}

// HandleError maps err to a status code and response body. Failures keep
// their kind's status; anything else becomes a 500 without internal detail.
//
//	if err != nil {
//	    status, body := api.HandleError(err)
//	    api.WriteJSONResponse(w, status, body)
//	    return
//	}
func HandleError(err error) (int, *ErrorResponse) {
	var f *providers.Failure
	if !errors.As(err, &f) {
		return http.StatusInternalServerError, &ErrorResponse{
			Error:   "Internal server error",
			Message: "An internal error occurred. Please try again later.",
		}
	}

	resp := &ErrorResponse{Error: f.Summary}
	if resp.Error == "" {
		resp.Error = string(f.Kind)
	}

	switch f.Kind {
	case providers.KindUpstreamUnreachable:
		resp.Message = "The upstream service could not be reached"
		resp.Detail = f.Message
	case providers.KindUnsupportedProvider:
		resp.Message = f.Message
		resp.SupportedProviders = f.Supported
	case providers.KindInternal:
		resp.Message = "An internal error occurred. Please try again later."
	default:
		resp.Message = f.Message
	}

	return f.StatusCode(), resp
}

// WriteError writes the response HandleError produces for err.
func WriteError(w http.ResponseWriter, err error) {
	status, body := HandleError(err)
	_ = WriteJSONResponse(w, status, body)
}
