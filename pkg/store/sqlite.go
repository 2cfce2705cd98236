package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // cgo SQLite driver ("sqlite3")
	_ "modernc.org/sqlite"          // pure Go SQLite driver ("sqlite")
)

// SQLite driver names accepted by SQLiteConfig.Driver.
const (
	DriverModernC = "sqlite"
	DriverCGO     = "sqlite3"
)

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the path to the SQLite database file.
	Path string

	// Driver selects the database/sql driver: "sqlite" (modernc, default)
	// or "sqlite3" (mattn, requires cgo).
	Driver string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteBackend stores the document as a single JSON row. Replace runs in a
// transaction so readers see either the previous or the new document.
type SQLiteBackend struct {
	db        *sql.DB
	path      string
	closeOnce sync.Once
	closed    chan struct{}
}

// NewSQLiteBackend opens (and if necessary creates) the database.
func NewSQLiteBackend(cfg SQLiteConfig) (*SQLiteBackend, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverModernC
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	var dsn string
	switch cfg.Driver {
	case DriverModernC:
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
			cfg.Path, cfg.BusyTimeout.Milliseconds())
	case DriverCGO:
		dsn = fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL",
			cfg.Path, cfg.BusyTimeout.Milliseconds())
	default:
		return nil, fmt.Errorf("unsupported sqlite driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	b := &SQLiteBackend{db: db, path: cfg.Path, closed: make(chan struct{})}
	if err := b.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return b, nil
}

func (b *SQLiteBackend) initSchema() error {
	_, err := b.db.Exec(`
	CREATE TABLE IF NOT EXISTS provider_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		document TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`)
	return err
}

// Load reads the stored document.
func (b *SQLiteBackend) Load(ctx context.Context) (Document, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}

	var raw string
	err := b.db.QueryRowContext(ctx, `SELECT document FROM provider_config WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return ParseDocument([]byte(raw))
}

// Replace stores doc in a single transaction.
func (b *SQLiteBackend) Replace(ctx context.Context, doc Document) error {
	if b.isClosed() {
		return ErrClosed
	}

	data, err := doc.Marshal()
	if err != nil {
		return err
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO provider_config (id, document, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store configuration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit configuration: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.closed)
		err = b.db.Close()
	})
	return err
}

func (b *SQLiteBackend) isClosed() bool {
	select {
	case <-b.closed:
		return true
	default:
		return false
	}
}
