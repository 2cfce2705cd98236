package store

import (
	"context"
	"errors"
	"log/slog"

	"sycoraxai/voicebroker/pkg/providers"
)

// ConfigStore is the broker's view of the provider configuration. It holds
// no state of its own: every call goes to the backend.
type ConfigStore struct {
	backend Backend
	logger  *slog.Logger
}

// NewConfigStore wraps backend.
func NewConfigStore(backend Backend, logger *slog.Logger) *ConfigStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigStore{
		backend: backend,
		logger:  logger.With("component", "store"),
	}
}

// Backend returns the underlying backend.
func (s *ConfigStore) Backend() Backend {
	return s.backend
}

// GetAll returns the whole document. A missing or unreadable store is logged
// and treated as empty.
func (s *ConfigStore) GetAll(ctx context.Context) Document {
	doc, err := s.backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrEmpty) {
			s.logger.Warn("failed to read provider configuration, using empty document",
				"error", err,
			)
		}
		return Document{}
	}
	return doc
}

// Get returns the configuration stored for one provider.
func (s *ConfigStore) Get(ctx context.Context, id string) (providers.Config, bool) {
	cfg, ok := s.GetAll(ctx)[providers.Normalize(id)]
	return cfg, ok
}

// ReplaceAll replaces the whole document. Failures are returned as a
// StorageError so callers can report them.
func (s *ConfigStore) ReplaceAll(ctx context.Context, doc Document) error {
	if err := s.backend.Replace(ctx, doc); err != nil {
		s.logger.Error("failed to write provider configuration", "error", err)
		return providers.Storage(err)
	}
	s.logger.Info("provider configuration replaced", "providers", len(doc))
	return nil
}

// Check reports whether the backend can be read. An empty store is healthy.
func (s *ConfigStore) Check(ctx context.Context) error {
	_, err := s.backend.Load(ctx)
	if err != nil && !errors.Is(err, ErrEmpty) {
		return err
	}
	return nil
}
