package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/shokugyo/internal/models"
)

// SQLiteSnapshotStore keeps the audit snapshot in a SQLite table.
type SQLiteSnapshotStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteSnapshotStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteSnapshotStore(dbPath string) (*SQLiteSnapshotStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteSnapshotStore{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_log (
		seq INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		query TEXT NOT NULL,
		filters TEXT,
		results_count INTEGER NOT NULL,
		user_id TEXT,
		session_id TEXT,
		search_time_ms REAL,
		language TEXT,
		input_method TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_audit_log_session ON audit_log(session_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Save replaces the stored snapshot with entries in a single transaction.
func (s *SQLiteSnapshotStore) Save(ctx context.Context, entries []models.AuditEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM audit_log`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO audit_log (seq, id, timestamp, query, filters, results_count, user_id,
		 session_id, search_time_ms, language, input_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		filtersJSON, err := json.Marshal(e.Filters)
		if err != nil {
			return fmt.Errorf("failed to marshal filters: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			i, e.ID, e.Timestamp.UTC(), e.Query, string(filtersJSON), e.ResultsCount, e.UserID,
			e.SessionID, e.SearchTimeMs, e.Language, string(e.InputMethod),
		); err != nil {
			return fmt.Errorf("failed to insert %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// Load returns the stored snapshot, oldest first.
func (s *SQLiteSnapshotStore) Load(ctx context.Context) ([]models.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, query, filters, results_count, user_id, session_id,
		 search_time_ms, language, input_method
		 FROM audit_log ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0)
	for rows.Next() {
		var e models.AuditEntry
		var ts time.Time
		var filtersJSON, inputMethod sql.NullString
		var userID, sessionID, language sql.NullString
		var searchTime sql.NullFloat64
		if err := rows.Scan(&e.ID, &ts, &e.Query, &filtersJSON, &e.ResultsCount, &userID,
			&sessionID, &searchTime, &language, &inputMethod); err != nil {
			return nil, err
		}
		if filtersJSON.Valid && filtersJSON.String != "" {
			if err := json.Unmarshal([]byte(filtersJSON.String), &e.Filters); err != nil {
				return nil, fmt.Errorf("failed to unmarshal filters: %w", err)
			}
		}
		e.Timestamp = ts
		e.UserID = userID.String
		e.SessionID = sessionID.String
		e.SearchTimeMs = searchTime.Float64
		e.Language = language.String
		e.InputMethod = models.InputMethod(inputMethod.String)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (s *SQLiteSnapshotStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&count)
	return count, err
}

// Paths returns the database file and its WAL companions.
func (s *SQLiteSnapshotStore) Paths() []string {
	return []string{s.path, s.path + "-wal", s.path + "-shm"}
}

// Close closes the database connection.
func (s *SQLiteSnapshotStore) Close() error {
	return s.db.Close()
}
