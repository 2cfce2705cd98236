package store

import (
	"context"
	"sync"
)

// MemoryBackend keeps the document in process memory.
type MemoryBackend struct {
	mu      sync.RWMutex
	doc     Document
	written bool

	// failWrites makes Replace return the given error (tests only).
	failWrites error
}

// NewMemoryBackend creates a memory backend, optionally pre-populated.
func NewMemoryBackend(initial Document) *MemoryBackend {
	m := &MemoryBackend{}
	if initial != nil {
		m.doc = initial.Clone()
		m.written = true
	}
	return m
}

// Load returns a copy of the stored document.
func (m *MemoryBackend) Load(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.written {
		return Document{}, ErrEmpty
	}
	return m.doc.Clone(), nil
}

// Replace stores a copy of doc.
func (m *MemoryBackend) Replace(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	m.doc = doc.Clone()
	if m.doc == nil {
		m.doc = Document{}
	}
	m.written = true
	return nil
}

// FailWrites makes every subsequent Replace return err. Pass nil to reset.
func (m *MemoryBackend) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = err
}

// Close is a no-op.
func (m *MemoryBackend) Close() error {
	return nil
}
