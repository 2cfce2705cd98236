package server

import (
	"fmt"

	"sycoraxai/voicebroker/pkg/config"
	"sycoraxai/voicebroker/pkg/store"
)

// OpenBackend opens the store backend selected by cfg.
func OpenBackend(cfg config.StoreConfig) (store.Backend, error) {
	switch cfg.Backend {
	case "file", "":
		return store.NewFileBackend(cfg.Path)
	case "sqlite":
		return store.NewSQLiteBackend(store.SQLiteConfig{
			Path:        cfg.SQLite.Path,
			Driver:      cfg.SQLite.Driver,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
	case "memory":
		return store.NewMemoryBackend(nil), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
