// Package signaling forwards WebRTC offer requests to the TargetAI voice
// endpoint and relays the answer verbatim.
package signaling

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sycoraxai/voicebroker/pkg/providers"
	"sycoraxai/voicebroker/pkg/telemetry/tracing"
)

// Defaults for the signaling proxy.
const (
	DefaultUpstream     = "https://app.targetai.ai/run/voice/offer"
	DefaultTimeout      = 15 * time.Second
	DefaultMaxBodyBytes = 1 << 20
	defaultContentType  = "application/json"
)

// Response is the upstream answer, relayed as-is.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Observer receives the outcome of each forwarded call.
type Observer interface {
	ObserveSignaling(status int, duration time.Duration)
}

// Config configures a Proxy.
type Config struct {
	// Upstream is the full URL of the offer endpoint.
	Upstream string

	// Timeout bounds each forwarded call.
	Timeout time.Duration

	// MaxBodyBytes bounds the inbound and relayed body sizes.
	MaxBodyBytes int64
}

// Proxy forwards signaling requests. It holds no per-request state.
type Proxy struct {
	config   Config
	client   *http.Client
	observer Observer
	logger   *slog.Logger
}

// New creates a proxy.
func New(cfg Config, observer Observer, logger *slog.Logger) *Proxy {
	if cfg.Upstream == "" {
		cfg.Upstream = DefaultUpstream
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Proxy{
		config: cfg,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
			Timeout: cfg.Timeout,
			// Redirects are relayed to the client rather than followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		observer: observer,
		logger:   logger.With("component", "signaling"),
	}
}

// MaxBodyBytes returns the inbound body limit.
func (p *Proxy) MaxBodyBytes() int64 {
	return p.config.MaxBodyBytes
}

// Forward posts body to the upstream with the caller's Authorization header.
// A missing header fails with MissingAuth before any outbound call.
func (p *Proxy) Forward(ctx context.Context, authorization string, body []byte) (*Response, error) {
	if strings.TrimSpace(authorization) == "" {
		return nil, providers.MissingAuth(providers.TargetAI)
	}
	if int64(len(body)) > p.config.MaxBodyBytes {
		return nil, providers.Invalid("request body too large", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	ctx, span := tracing.Start(ctx, "signaling.forward",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("url.full", p.config.Upstream)),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Upstream, bytes.NewReader(body))
	if err != nil {
		return nil, providers.Internal(err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", defaultContentType)
	tracing.Inject(ctx, req.Header)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		tracing.SetError(span, err)
		p.record(http.StatusBadGateway, start)
		p.logger.Warn("failed to reach signaling upstream",
			"upstream", p.config.Upstream,
			"error", err,
		)
		return nil, unreachable(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.config.MaxBodyBytes+1))
	if err != nil {
		tracing.SetError(span, err)
		p.record(http.StatusBadGateway, start)
		return nil, unreachable(err)
	}
	if int64(len(data)) > p.config.MaxBodyBytes {
		err := errors.New("upstream response exceeds size limit")
		tracing.SetError(span, err)
		p.record(http.StatusBadGateway, start)
		return nil, unreachable(err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	tracing.SetUpstreamStatus(span, resp.StatusCode)
	p.record(resp.StatusCode, start)
	p.logger.Debug("signaling request forwarded",
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        data,
	}, nil
}

func (p *Proxy) record(status int, start time.Time) {
	if p.observer != nil {
		p.observer.ObserveSignaling(status, time.Since(start))
	}
}

func unreachable(err error) *providers.Failure {
	return providers.Unreachable(providers.TargetAI, "failed to reach TargetAI", err)
}
