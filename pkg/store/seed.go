package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSeedFile reads a provider document from a YAML or JSON file. The
// format is chosen by extension; anything other than .json is parsed as
// YAML.
func LoadSeedFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseDocument(data)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	// Round-trip through JSON so values have the same types as a document
	// read back from a backend.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("seed file contains unsupported values: %w", err)
	}
	return ParseDocument(encoded)
}

// Seed writes doc to backend if the backend has never been written. It
// reports whether anything was written.
func Seed(ctx context.Context, backend Backend, doc Document, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	_, err := backend.Load(ctx)
	switch {
	case err == nil:
		logger.Debug("store already populated, skipping seed")
		return false, nil
	case !errors.Is(err, ErrEmpty):
		return false, fmt.Errorf("failed to inspect store: %w", err)
	}

	normalized, err := doc.Normalize()
	if err != nil {
		return false, fmt.Errorf("invalid seed document: %w", err)
	}

	if err := backend.Replace(ctx, normalized); err != nil {
		return false, fmt.Errorf("failed to seed store: %w", err)
	}

	logger.Info("seeded provider configuration", "providers", len(normalized))
	return true, nil
}
