package handlers

import (
	"context"
	"log/slog"

	"sycoraxai/voicebroker/pkg/broker"
	"sycoraxai/voicebroker/pkg/issuer"
	"sycoraxai/voicebroker/pkg/signaling"
	"sycoraxai/voicebroker/pkg/store"
)

// Broker is the subset of the dispatcher the handlers use.
type Broker interface {
	Issue(ctx context.Context, req broker.Request) (*issuer.Result, error)
	ReadConfig(ctx context.Context, redact bool) store.Document
	StoreConfig(ctx context.Context, doc store.Document) error
	LegacyToken(ctx context.Context) (string, error)
}

// Signaler forwards voice offers.
type Signaler interface {
	Forward(ctx context.Context, authorization string, body []byte) (*signaling.Response, error)
	MaxBodyBytes() int64
}

// ConfigWriteRecorder counts store_config outcomes.
type ConfigWriteRecorder interface {
	RecordConfigWrite(outcome string)
}

// Options configures Handlers.
type Options struct {
	// ExposeSecrets disables redaction on read_config.
	ExposeSecrets bool

	// MaxBodyBytes bounds JSON request bodies.
	MaxBodyBytes int64

	// Writes is optional.
	Writes ConfigWriteRecorder

	Logger *slog.Logger
}

// Handlers serves the broker's HTTP endpoints. It holds no per-request
// state.
type Handlers struct {
	broker    Broker
	signaling Signaler
	opts      Options
	logger    *slog.Logger
}

// New creates the handlers.
func New(b Broker, s Signaler, opts Options) *Handlers {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Handlers{
		broker:    b,
		signaling: s,
		opts:      opts,
		logger:    opts.Logger.With("component", "api"),
	}
}
