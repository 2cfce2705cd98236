package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"sycoraxai/voicebroker/pkg/providers"
)

// Document is the full contents of the configuration store, keyed by
// provider id.
type Document map[string]providers.Config

// Backend is the durable storage behind the ConfigStore.
// Implementations must be safe for concurrent use and must replace the
// document atomically: a concurrent Load observes either the old or the new
// document, never a partial write.
type Backend interface {
	// Load returns the stored document. A backend that has never been
	// written returns an empty document and ErrEmpty.
	Load(ctx context.Context) (Document, error)

	// Replace stores doc in place of the current document.
	Replace(ctx context.Context, doc Document) error

	// Close releases any resources held by the backend.
	Close() error
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for id, cfg := range d {
		out[id] = cfg.Clone()
	}
	return out
}

// Normalize returns a copy keyed by canonical provider ids. Two keys that
// normalize to the same id are an error.
func (d Document) Normalize() (Document, error) {
	out := make(Document, len(d))
	for id, cfg := range d {
		canonical := providers.Normalize(id)
		if _, dup := out[canonical]; dup {
			return nil, fmt.Errorf("provider %q is defined more than once", canonical)
		}
		if cfg == nil {
			cfg = providers.Config{}
		}
		out[canonical] = cfg
	}
	return out, nil
}

// Marshal encodes the document as indented JSON.
func (d Document) Marshal() ([]byte, error) {
	if d == nil {
		d = Document{}
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseDocument decodes a JSON document. Every top-level value must be an
// object. Numbers are kept as json.Number so they round trip exactly.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	for id, cfg := range doc {
		if cfg == nil {
			doc[id] = providers.Config{}
		}
	}
	return doc, nil
}
