package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is called after the store file was modified by something other
// than the broker itself.
type ChangeFunc func(path string)

// Watcher observes a file-backed store for out-of-band edits. The broker
// reads the store on every request so no reload is needed; the watcher only
// reports edits and flags files that no longer parse.
type Watcher struct {
	backend  *FileBackend
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce *debouncer
	onChange ChangeFunc

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for backend. interval is the quiet period
// after the last event before the change is reported.
func NewWatcher(backend *FileBackend, interval time.Duration, onChange ChangeFunc, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		backend:  backend,
		watcher:  fw,
		logger:   logger.With("component", "store.watcher"),
		debounce: newDebouncer(interval),
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer close(w.doneCh)

	// The file is replaced by rename, so watch the directory rather than
	// the file's inode.
	dir := filepath.Dir(w.backend.Path())
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("store watcher started", "path", w.backend.Path())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stopCh:
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.debounce.trigger(w.inspect)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("store watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and releases the fsnotify handle.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	w.debounce.stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.backend.Path())
}

// inspect reads the file once the events have settled.
func (w *Watcher) inspect() {
	path := w.backend.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.logger.Warn("store file removed externally", "path", path)
			w.notify(path)
		}
		return
	}

	if w.backend.WrittenByUs(data) {
		return
	}

	if _, err := ParseDocument(data); err != nil {
		w.logger.Warn("store file edited externally and no longer parses",
			"path", path,
			"error", err,
		)
	} else {
		w.logger.Info("store file edited externally", "path", path)
	}
	w.notify(path)
}

func (w *Watcher) notify(path string) {
	if w.onChange != nil {
		w.onChange(path)
	}
}

// debouncer delays a callback until events stop arriving for interval.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
