package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/hyperjump/shokugyo/internal/models"
)

// JSONFileSnapshotStore keeps the audit snapshot as a JSON array in a single file.
// Writes go to a temporary file that is renamed over the target.
type JSONFileSnapshotStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONFileSnapshotStore returns a store writing to path, creating parent directories.
func NewJSONFileSnapshotStore(path string) (*JSONFileSnapshotStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	return &JSONFileSnapshotStore{path: path}, nil
}

// Save replaces the file contents with entries.
func (s *JSONFileSnapshotStore) Save(ctx context.Context, entries []models.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load returns the stored entries. A missing file is an empty snapshot.
func (s *JSONFileSnapshotStore) Load(ctx context.Context) ([]models.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if os.IsNotExist(err) {
		return []models.AuditEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	entries := make([]models.AuditEntry, 0)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return entries, nil
}

// Paths returns the snapshot file.
func (s *JSONFileSnapshotStore) Paths() []string {
	return []string{s.path}
}

// Close is a no-op.
func (s *JSONFileSnapshotStore) Close() error {
	return nil
}
