package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"sycoraxai/voicebroker/pkg/issuer"
	"sycoraxai/voicebroker/pkg/providers"
	"sycoraxai/voicebroker/pkg/store"
	"sycoraxai/voicebroker/pkg/telemetry/tracing"
)

// DefaultProvider is used when a request does not name one.
const DefaultProvider = providers.Retell

// Observer receives issuance outcomes. The metrics collector implements it.
type Observer interface {
	ObserveIssuance(provider, outcome string, duration time.Duration)
}

// Config wires a Dispatcher.
type Config struct {
	Registry        *providers.Registry
	Store           *store.ConfigStore
	Strategies      issuer.Set
	Legacy          *issuer.LegacyTokenClient
	DefaultProvider string
	Observer        Observer
	Logger          *slog.Logger

	// Now returns the current time; used for generated caller ids.
	Now func() time.Time
}

// Dispatcher routes issuance requests to provider strategies.
type Dispatcher struct {
	registry        *providers.Registry
	store           *store.ConfigStore
	strategies      issuer.Set
	legacy          *issuer.LegacyTokenClient
	defaultProvider string
	observer        Observer
	validate        *validator.Validate
	logger          *slog.Logger
	now             func() time.Time
}

// New creates a dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Store == nil {
		return nil, errors.New("broker: store is required")
	}
	if cfg.Registry == nil {
		cfg.Registry = providers.DefaultRegistry()
	}
	if cfg.Strategies == nil {
		cfg.Strategies = issuer.DefaultStrategies(issuer.Options{})
	}
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = DefaultProvider
	}
	if !cfg.Registry.IsKnown(cfg.DefaultProvider) {
		return nil, fmt.Errorf("broker: default provider %q is not registered", cfg.DefaultProvider)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Dispatcher{
		registry:        cfg.Registry,
		store:           cfg.Store,
		strategies:      cfg.Strategies,
		legacy:          cfg.Legacy,
		defaultProvider: providers.Normalize(cfg.DefaultProvider),
		observer:        cfg.Observer,
		validate:        newValidator(),
		logger:          cfg.Logger.With("component", "broker"),
		now:             cfg.Now,
	}, nil
}

// Registry returns the provider registry.
func (d *Dispatcher) Registry() *providers.Registry {
	return d.registry
}

// Issue produces connection details for the requested provider.
func (d *Dispatcher) Issue(ctx context.Context, req Request) (*issuer.Result, error) {
	start := time.Now()

	id := providers.Normalize(req.Provider)
	if id == "" {
		id = d.defaultProvider
	}

	ctx, span := tracing.Start(ctx, "broker.issue")
	defer span.End()
	tracing.SetProvider(span, id)

	res, err := d.issue(ctx, id, req)
	outcome := outcomeOf(err)
	tracing.SetOutcome(span, outcome)
	d.observe(id, outcome, start)

	if err != nil {
		tracing.SetError(span, err)
		d.logger.Warn("credential issuance failed",
			"provider", id,
			"error", err,
		)
		return nil, err
	}

	d.logger.Info("credentials issued",
		"provider", id,
		"user_id", res.Payload["user_id"],
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (d *Dispatcher) issue(ctx context.Context, id string, req Request) (*issuer.Result, error) {
	// Unknown ids never reach the store.
	if err := d.registry.Validate(id); err != nil {
		return nil, err
	}

	desc, _ := d.registry.Describe(id)
	if desc.Capability == providers.CapabilityNotImplemented {
		return nil, providers.NotConfigured(id)
	}

	stored, ok := d.store.Get(ctx, id)
	if !ok {
		return nil, providers.NotConfigured(id)
	}
	cfg := stored.WithDefaults(desc.Defaults)

	// Unconfigured credentials win over any problem with the other fields.
	if missing := desc.Missing(cfg); len(missing) > 0 {
		return nil, providers.NotConfigured(id, missing...)
	}

	if err := d.validate.Struct(req); err != nil {
		return nil, providers.Invalid(describeValidation(err), err)
	}

	strategy, err := d.strategies.Lookup(id)
	if err != nil {
		return nil, err
	}

	callerID := req.CompanyID
	if callerID == "" {
		callerID = fmt.Sprintf("company_%d", d.now().Unix())
	}

	res, err := strategy.Issue(ctx, issuer.Request{
		Provider:        id,
		CallerID:        callerID,
		RoomName:        req.RoomName,
		ParticipantName: req.ParticipantName,
		Language:        req.Language,
	}, cfg)
	if err != nil {
		var f *providers.Failure
		if errors.As(err, &f) {
			return nil, err
		}
		return nil, providers.Internal(err)
	}

	// Every result carries the provider tag of the request.
	res.Provider = id
	if res.Payload == nil {
		res.Payload = map[string]any{}
	}
	res.Payload["provider"] = id
	return res, nil
}

func (d *Dispatcher) observe(provider, outcome string, start time.Time) {
	if d.observer == nil {
		return
	}
	if outcome == string(providers.KindUnsupportedProvider) {
		// Keep label cardinality bounded.
		provider = "unknown"
	}
	d.observer.ObserveIssuance(provider, outcome, time.Since(start))
}

// outcomeOf is "success" or the failure kind of err.
func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	var f *providers.Failure
	if errors.As(err, &f) {
		return string(f.Kind)
	}
	return string(providers.KindInternal)
}

// ReadConfig returns the stored configuration, with secrets masked when
// redact is set.
func (d *Dispatcher) ReadConfig(ctx context.Context, redact bool) store.Document {
	doc := d.store.GetAll(ctx)
	if redact {
		return store.Redact(doc)
	}
	return doc
}

// StoreConfig replaces the stored configuration. Provider ids must already
// be in canonical (lower-case) form, otherwise they could never be issued.
func (d *Dispatcher) StoreConfig(ctx context.Context, doc store.Document) error {
	if doc == nil {
		doc = store.Document{}
	}
	for id := range doc {
		if canonical := providers.Normalize(id); canonical != id {
			return providers.Invalid(fmt.Sprintf("provider id %q must be written as %q", id, canonical), nil)
		}
	}
	for id := range doc {
		if !d.registry.IsKnown(id) {
			d.logger.Warn("storing configuration for unregistered provider", "provider", id)
		}
	}
	return d.store.ReplaceAll(ctx, doc)
}

// LegacyToken fetches a TargetAI token through the legacy client.
func (d *Dispatcher) LegacyToken(ctx context.Context) (string, error) {
	if d.legacy == nil {
		return "", providers.Issuance(providers.TargetAI, "Failed to generate TargetAI token",
			errors.New("legacy token client is not configured"))
	}

	start := time.Now()
	ctx, span := tracing.Start(ctx, "broker.legacy_token")
	defer span.End()

	tok, err := d.legacy.Token(ctx)
	if d.observer != nil {
		outcome := "success"
		if err != nil {
			outcome = string(providers.KindIssuanceError)
		}
		d.observer.ObserveIssuance("targetai_legacy", outcome, time.Since(start))
	}
	if err != nil {
		tracing.SetError(span, err)
		d.logger.Warn("legacy token request failed", "error", err)
		return "", err
	}
	return tok, nil
}
