package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores the document as a JSON file. Writes go to a temporary
// file in the same directory which is synced and then renamed over the
// target, so readers never observe a half-written file.
type FileBackend struct {
	path string

	// mu serialises writers; readers go straight to the file system.
	mu sync.Mutex

	// lastDigest is the digest of the last document written by this backend.
	lastDigest [sha256.Size]byte
	digestMu   sync.RWMutex
}

// NewFileBackend creates a file backend rooted at path. The parent
// directory is created if it does not exist.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

// Path returns the file the document is stored in.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads and decodes the file.
func (b *FileBackend) Load(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", b.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, ErrEmpty
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", b.path, err)
	}
	return doc, nil
}

// Replace atomically writes doc to the file.
func (b *FileBackend) Replace(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := doc.Marshal()
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := writeFileAtomic(b.path, data, 0o600); err != nil {
		return err
	}

	b.digestMu.Lock()
	b.lastDigest = sha256.Sum256(data)
	b.digestMu.Unlock()
	return nil
}

// WrittenByUs reports whether data matches the last document this backend
// wrote. The watcher uses it to tell our own writes from external edits.
func (b *FileBackend) WrittenByUs(data []byte) bool {
	b.digestMu.RLock()
	defer b.digestMu.RUnlock()
	return sha256.Sum256(data) == b.lastDigest
}

// Close is a no-op for the file backend.
func (b *FileBackend) Close() error {
	return nil
}

// writeFileAtomic writes data to a temp file next to path, syncs it and
// renames it into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}
