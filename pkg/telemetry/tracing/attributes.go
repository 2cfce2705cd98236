package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys in the voicebroker namespace. Standard keys (url.full,
// http.request.method, http.response.status_code) follow OpenTelemetry
// semantic conventions and are set inline.
const (
	AttrProvider     = "voicebroker.provider"
	AttrOutcome      = "voicebroker.outcome"
	AttrAgentID      = "voicebroker.agent_id"
	AttrUpstreamCode = "http.response.status_code"
)

// SetProvider tags the span with the provider being served.
func SetProvider(span trace.Span, provider string) {
	span.SetAttributes(attribute.String(AttrProvider, provider))
}

// SetOutcome records the issuance outcome ("success" or a failure kind).
func SetOutcome(span trace.Span, outcome string) {
	span.SetAttributes(attribute.String(AttrOutcome, outcome))
}

// SetUpstreamStatus records the status code returned by an upstream.
func SetUpstreamStatus(span trace.Span, code int) {
	span.SetAttributes(attribute.Int(AttrUpstreamCode, code))
}
