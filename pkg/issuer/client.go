package issuer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sycoraxai/voicebroker/pkg/telemetry/tracing"
)

// DefaultTimeout bounds every outbound issuance call.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of an upstream response is read.
const maxResponseBytes = 1 << 20

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError is returned when the request never got a response.
type TransportError struct {
	URL   string
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Client performs outbound JSON calls with pooled connections, a bounded
// timeout and trace propagation. It never retries.
type Client struct {
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a client with the given per-call timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		http:    &http.Client{Transport: transport, Timeout: timeout},
		timeout: timeout,
		logger:  logger.With("component", "issuer.client"),
	}
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// PostJSON sends reqBody as JSON to url and decodes a 2xx response into
// respBody. timeout overrides the client default when positive.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, timeout time.Duration, reqBody, respBody any) error {
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := tracing.Start(ctx, "issuer.post",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodPost),
			attribute.String("url.full", url),
		),
	)
	defer span.End()

	var body []byte
	if reqBody != nil {
		var err error
		body, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	tracing.Inject(ctx, req.Header)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		terr := &TransportError{URL: url, Cause: err}
		tracing.SetError(span, terr)
		c.logger.Warn("outbound request failed",
			"url", url,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return terr
	}
	defer resp.Body.Close()

	tracing.SetUpstreamStatus(span, resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		terr := &TransportError{URL: url, Cause: fmt.Errorf("failed to read response: %w", err)}
		tracing.SetError(span, terr)
		return terr
	}

	c.logger.Debug("outbound request completed",
		"url", url,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
		tracing.SetError(span, serr)
		return serr
	}

	if respBody != nil && len(data) > 0 {
		if err := json.Unmarshal(data, respBody); err != nil {
			perr := fmt.Errorf("failed to decode response: %w", err)
			tracing.SetError(span, perr)
			return perr
		}
	}
	return nil
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}
