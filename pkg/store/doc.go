// Package store persists provider configuration records.
//
// # Overview
//
// The broker keeps one Document per deployment: a mapping from provider id
// to that provider's settings. The document is read in full on every request
// and replaced wholesale by the administrative endpoint, so configuration
// changes take effect immediately and nothing is cached in memory.
//
// # Backends
//
//   - FileBackend - JSON file, replaced atomically (temp file + rename)
//   - SQLiteBackend - single-row document table, replaced in a transaction
//   - MemoryBackend - in-process, for tests and development
//
// # ConfigStore
//
// ConfigStore wraps a Backend with the broker's read/write semantics:
//
//	cs := store.NewConfigStore(backend, logger)
//	doc := cs.GetAll(ctx)         // read failures degrade to an empty document
//	cfg, ok := cs.Get(ctx, "retell")
//	err := cs.ReplaceAll(ctx, doc) // write failures return a StorageError
//
// # Supporting jobs
//
// Watcher reports out-of-band edits of a file-backed store and
// BackupScheduler writes periodic snapshots on a cron schedule.
package store
