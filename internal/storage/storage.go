// Package storage persists the recent window of the audit log.
package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hyperjump/shokugyo/internal/models"
)

// SnapshotStore holds the most recently saved window of audit entries. Save replaces
// the previous snapshot; Load returns it oldest first.
type SnapshotStore interface {
	Save(ctx context.Context, entries []models.AuditEntry) error
	Load(ctx context.Context) ([]models.AuditEntry, error)
	// Paths lists the files backing the store, for disk usage reporting.
	Paths() []string
	Close() error
}

// Open returns a SQLite store for .db/.sqlite/.sqlite3 paths and a JSON file store
// otherwise.
func Open(path string) (SnapshotStore, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteSnapshotStore(path)
	default:
		return NewJSONFileSnapshotStore(path)
	}
}
