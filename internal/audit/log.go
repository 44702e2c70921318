// Package audit keeps the append-only history of searches and hands a bounded window of
// it to persistent storage.
package audit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hyperjump/shokugyo/internal/models"
)

// DefaultPersistLimit is the number of most recent entries handed to the Snapshotter.
const DefaultPersistLimit = 100

// Snapshotter persists the most recent window of audit entries, replacing any
// previous snapshot.
type Snapshotter interface {
	Save(ctx context.Context, entries []models.AuditEntry) error
}

// Log is a concurrency-safe, append-only audit history for one session.
type Log struct {
	mu           sync.Mutex
	entries      []models.AuditEntry
	restored     []models.AuditEntry
	sessionID    string
	snapshotter  Snapshotter
	persistLimit int
	now          func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithSnapshotter sets where the recent window is persisted after every append.
func WithSnapshotter(s Snapshotter) Option {
	return func(l *Log) {
		l.snapshotter = s
	}
}

// WithPersistLimit sets the size of the persisted window.
func WithPersistLimit(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.persistLimit = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// WithHistory restores a previously persisted window, oldest first. Restored entries
// are not part of List; they only precede this session's entries in the persisted
// window, so a new process extends the snapshot instead of replacing it.
func WithHistory(entries []models.AuditEntry) Option {
	return func(l *Log) {
		l.restored = append(l.restored, entries...)
	}
}

// NewLog creates a log with a fresh session id.
func NewLog(opts ...Option) *Log {
	l := &Log{
		entries:      make([]models.AuditEntry, 0),
		persistLimit: DefaultPersistLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.sessionID = newID("session", l.now())
	return l
}

// newID returns "<prefix>_<unix millis>_<9 random characters>".
func newID(prefix string, t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, t.UnixMilli(), suffix)
}

// SessionID returns the id stamped on every entry of this log.
func (l *Log) SessionID() string {
	return l.sessionID
}

// Record appends an entry and persists the recent window. ID, Timestamp, SessionID, and
// UserID are filled in when empty. The entry is kept in memory even when persistence
// fails; the persistence error is returned.
func (l *Log) Record(ctx context.Context, entry models.AuditEntry) (models.AuditEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if entry.ID == "" {
		entry.ID = newID("log", now)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now
	}
	if entry.SessionID == "" {
		entry.SessionID = l.sessionID
	}
	if entry.UserID == "" {
		entry.UserID = models.AnonymousUser
	}
	l.entries = append(l.entries, entry)

	if l.snapshotter == nil {
		return entry, nil
	}
	if err := l.snapshotter.Save(ctx, l.windowLocked()); err != nil {
		return entry, fmt.Errorf("failed to persist audit log: %w", err)
	}
	return entry, nil
}

// recentLocked returns a copy of the last n entries, oldest first.
func (l *Log) recentLocked(n int) []models.AuditEntry {
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]models.AuditEntry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// windowLocked returns the last persistLimit entries across the restored history and
// this session, oldest first.
func (l *Log) windowLocked() []models.AuditEntry {
	fromSession := min(l.persistLimit, len(l.entries))
	fromRestored := min(l.persistLimit-fromSession, len(l.restored))
	out := make([]models.AuditEntry, 0, fromRestored+fromSession)
	out = append(out, l.restored[len(l.restored)-fromRestored:]...)
	return append(out, l.entries[len(l.entries)-fromSession:]...)
}

// List returns a copy of the history recorded since construction, oldest first.
func (l *Log) List() []models.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recentLocked(len(l.entries))
}

// Len returns the number of entries recorded since construction.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Export returns the full history as indented JSON.
func (l *Log) Export() ([]byte, error) {
	return MarshalEntries(l.List())
}

// MarshalEntries encodes entries as an indented JSON array.
func MarshalEntries(entries []models.AuditEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit log: %w", err)
	}
	return data, nil
}
