package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const backupPrefix = "providers-"

// BackupConfig configures scheduled snapshots of the provider document.
type BackupConfig struct {
	// Schedule is a standard five-field cron expression. Empty disables
	// backups.
	Schedule string

	// Dir is where snapshots are written.
	Dir string

	// Keep is the number of snapshots to retain. Zero keeps all.
	Keep int
}

// BackupScheduler writes snapshots of the store on a cron schedule.
type BackupScheduler struct {
	store  *ConfigStore
	config BackupConfig
	cron   *cron.Cron
	logger *slog.Logger
	now    func() time.Time

	// onResult is called after every scheduled run.
	onResult func(err error)

	mu      sync.Mutex
	running bool
}

// NewBackupScheduler creates a scheduler for store.
func NewBackupScheduler(store *ConfigStore, config BackupConfig, logger *slog.Logger) *BackupScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupScheduler{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: logger.With("component", "store.backup"),
		now:    time.Now,
	}
}

// Start schedules the backup job. It is a no-op when no schedule is
// configured. The scheduler stops when ctx is cancelled.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" {
		s.logger.Info("backup schedule not configured, skipping scheduler")
		return nil
	}
	if s.config.Dir == "" {
		return fmt.Errorf("backup directory is required when a schedule is set")
	}
	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, func() {
		_, err := s.RunOnce(ctx)
		if err != nil {
			s.logger.Error("scheduled backup failed", "error", err)
		}
		if s.onResult != nil {
			s.onResult(err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule backup: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("backup scheduler started",
		"schedule", s.config.Schedule,
		"dir", s.config.Dir,
		"keep", s.config.Keep,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// OnResult registers fn to be called after each scheduled backup. It must be
// called before Start.
func (s *BackupScheduler) OnResult(fn func(err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResult = fn
}

// Stop stops the scheduler and waits for a running backup to finish.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("backup scheduler stopped")
	}
}

// NextRun returns the next scheduled backup time, or nil when idle.
func (s *BackupScheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if !s.running || len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

// RunOnce writes a snapshot now and prunes old ones. It returns the path of
// the snapshot.
func (s *BackupScheduler) RunOnce(ctx context.Context) (string, error) {
	data, err := s.store.GetAll(ctx).Marshal()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.config.Dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := backupPrefix + s.now().UTC().Format("20060102T150405.000Z") + ".json"
	path := filepath.Join(s.config.Dir, name)
	if err := writeFileAtomic(path, data, 0o600); err != nil {
		return "", err
	}

	removed, err := s.prune()
	if err != nil {
		s.logger.Warn("failed to prune old backups", "error", err)
	}

	s.logger.Info("provider configuration backed up", "path", path, "pruned", removed)
	return path, nil
}

// prune removes the oldest snapshots beyond Keep.
func (s *BackupScheduler) prune() (int, error) {
	if s.config.Keep <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		return 0, err
	}

	var snapshots []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), backupPrefix) || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		snapshots = append(snapshots, e.Name())
	}
	if len(snapshots) <= s.config.Keep {
		return 0, nil
	}

	// Timestamps sort lexically.
	sort.Strings(snapshots)
	removed := 0
	for _, name := range snapshots[:len(snapshots)-s.config.Keep] {
		if err := os.Remove(filepath.Join(s.config.Dir, name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
