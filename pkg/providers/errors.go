package providers

import (
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a broker failure. Every failure that reaches the HTTP layer
// carries exactly one kind, which determines the response status.
type Kind string

const (
	// KindUnsupportedProvider means the provider id is not registered.
	KindUnsupportedProvider Kind = "unsupported_provider"

	// KindNotConfigured means the provider is known but its credentials are
	// missing or still set to a placeholder sentinel.
	KindNotConfigured Kind = "not_configured"

	// KindMissingAuth means a signaling request arrived without an
	// Authorization header.
	KindMissingAuth Kind = "missing_auth"

	// KindUpstreamError means the provider API answered with an error.
	KindUpstreamError Kind = "upstream_error"

	// KindUpstreamUnreachable means the outbound request never completed.
	KindUpstreamUnreachable Kind = "upstream_unreachable"

	// KindStorageError means the configuration store could not be written.
	KindStorageError Kind = "storage_error"

	// KindIssuanceError means the legacy token client failed.
	KindIssuanceError Kind = "issuance_error"

	// KindInvalidRequest means the inbound body could not be decoded or
	// failed validation.
	KindInvalidRequest Kind = "invalid_request"

	// KindInternal is the catch-all for unexpected failures.
	KindInternal Kind = "internal_error"
)

// HTTPStatus returns the response status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnsupportedProvider, KindMissingAuth, KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotConfigured:
		return http.StatusNotImplemented
	case KindUpstreamUnreachable:
		return http.StatusBadGateway
	case KindUpstreamError, KindIssuanceError, KindStorageError, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Failure is the structured error returned by every broker operation.
type Failure struct {
	// Kind classifies the failure.
	Kind Kind

	// Provider is the provider id the failure relates to (may be empty).
	Provider string

	// Summary is the short, client-facing error title.
	Summary string

	// Message is the human-readable detail.
	Message string

	// Supported lists the valid provider ids (UnsupportedProvider only).
	Supported []string

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *Failure) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Provider != "" {
		fmt.Fprintf(&sb, " (provider %q)", e.Provider)
	}
	if e.Summary != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Summary)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Cause != nil && (e.Message == "" || !strings.Contains(e.Message, e.Cause.Error())) {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

// Unwrap returns the underlying error for error chain support.
func (e *Failure) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status for the failure.
func (e *Failure) StatusCode() int {
	return e.Kind.HTTPStatus()
}

// UnsupportedProvider builds the failure returned for unknown provider ids.
func UnsupportedProvider(id string, supported []string) *Failure {
	return &Failure{
		Kind:      KindUnsupportedProvider,
		Provider:  id,
		Summary:   fmt.Sprintf("Unsupported provider: %s", id),
		Message:   fmt.Sprintf("Valid providers are: %s", strings.Join(supported, ", ")),
		Supported: supported,
	}
}

// NotConfigured builds the failure returned when a provider's credentials
// are absent or still placeholders. fields names the settings to fill in.
func NotConfigured(id string, fields ...string) *Failure {
	msg := fmt.Sprintf("No configuration stored for provider %s", id)
	if len(fields) > 0 {
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = strings.ToUpper(id + "_" + f)
		}
		msg = fmt.Sprintf("Please configure %s in the server configuration", strings.Join(names, " and "))
	}
	return &Failure{
		Kind:     KindNotConfigured,
		Provider: id,
		Summary:  fmt.Sprintf("%s API key not configured", displayName(id)),
		Message:  msg,
	}
}

// MissingAuth builds the failure returned when a signaling request carries
// no Authorization header.
func MissingAuth(id string) *Failure {
	return &Failure{
		Kind:     KindMissingAuth,
		Provider: id,
		Summary:  "Missing Authorization header",
		Message:  "Authorization header is required",
	}
}

// Upstream wraps an error returned by a provider API.
func Upstream(id, summary string, cause error) *Failure {
	return &Failure{
		Kind:     KindUpstreamError,
		Provider: id,
		Summary:  summary,
		Message:  errorText(cause),
		Cause:    cause,
	}
}

// Unreachable wraps a transport failure on an outbound call.
func Unreachable(id, summary string, cause error) *Failure {
	return &Failure{
		Kind:     KindUpstreamUnreachable,
		Provider: id,
		Summary:  summary,
		Message:  errorText(cause),
		Cause:    cause,
	}
}

// Storage wraps a configuration store write failure.
func Storage(cause error) *Failure {
	return &Failure{
		Kind:    KindStorageError,
		Summary: "Failed to store configuration",
		Message: errorText(cause),
		Cause:   cause,
	}
}

// Invalid builds the failure returned for undecodable or invalid input.
func Invalid(message string, cause error) *Failure {
	return &Failure{
		Kind:    KindInvalidRequest,
		Summary: "Invalid request",
		Message: message,
		Cause:   cause,
	}
}

// Internal wraps an unexpected error.
func Internal(cause error) *Failure {
	return &Failure{
		Kind:    KindInternal,
		Summary: "Internal server error",
		Message: errorText(cause),
		Cause:   cause,
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func displayName(id string) string {
	switch id {
	case TargetAI:
		return "TargetAI"
	case Retell:
		return "Retell"
	case LiveKit:
		return "LiveKit"
	}
	if id == "" {
		return "Provider"
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

// Issuance wraps a failure of the legacy token client.
func Issuance(id, summary string, cause error) *Failure {
	return &Failure{
		Kind:     KindIssuanceError,
		Provider: id,
		Summary:  summary,
		Message:  errorText(cause),
		Cause:    cause,
	}
}
