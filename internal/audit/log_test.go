package audit

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/hyperjump/shokugyo/internal/models"
)

// memorySnapshotter keeps the last saved window.
type memorySnapshotter struct {
	mu    sync.Mutex
	saved []models.AuditEntry
	calls int
	err   error
}

func (m *memorySnapshotter) Save(_ context.Context, entries []models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.saved = entries
	return nil
}

func TestNewLog_SessionID(t *testing.T) {
	clock := func() time.Time { return time.UnixMilli(1700000000123) }
	l := NewLog(WithClock(clock))

	re := regexp.MustCompile(`^session_1700000000123_[0-9a-f]{9}$`)
	if !re.MatchString(l.SessionID()) {
		t.Errorf("unexpected session id %q", l.SessionID())
	}
	if NewLog().SessionID() == NewLog().SessionID() {
		t.Error("expected distinct session ids")
	}
}

func TestLog_Record(t *testing.T) {
	clock := func() time.Time { return time.UnixMilli(1700000000999) }
	l := NewLog(WithClock(clock))

	entry, err := l.Record(context.Background(), models.AuditEntry{
		Query:        "cook",
		ResultsCount: 1,
		Language:     "en",
		InputMethod:  models.InputText,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !regexp.MustCompile(`^log_1700000000999_[0-9a-f]{9}$`).MatchString(entry.ID) {
		t.Errorf("unexpected entry id %q", entry.ID)
	}
	if entry.SessionID != l.SessionID() {
		t.Errorf("SessionID = %q, want %q", entry.SessionID, l.SessionID())
	}
	if entry.UserID != models.AnonymousUser {
		t.Errorf("UserID = %q", entry.UserID)
	}
	if !entry.Timestamp.Equal(clock()) {
		t.Errorf("Timestamp = %v", entry.Timestamp)
	}

	list := l.List()
	if len(list) != 1 || list[0].ID != entry.ID {
		t.Fatalf("List = %+v", list)
	}
	list[0].Query = "mutated"
	if l.List()[0].Query != "cook" {
		t.Error("List should return a copy")
	}
}

func TestLog_PersistWindow(t *testing.T) {
	snap := &memorySnapshotter{}
	l := NewLog(WithSnapshotter(snap))
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		if _, err := l.Record(ctx, models.AuditEntry{Query: fmt.Sprintf("q%d", i)}); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	if l.Len() != 150 {
		t.Errorf("Len = %d, want 150", l.Len())
	}
	if len(l.List()) != 150 {
		t.Errorf("List returned %d entries, want 150", len(l.List()))
	}
	if snap.calls != 150 {
		t.Errorf("Save called %d times, want 150", snap.calls)
	}
	if len(snap.saved) != DefaultPersistLimit {
		t.Fatalf("persisted %d entries, want %d", len(snap.saved), DefaultPersistLimit)
	}
	if snap.saved[0].Query != "q50" || snap.saved[99].Query != "q149" {
		t.Errorf("persisted window = %s..%s, want q50..q149", snap.saved[0].Query, snap.saved[99].Query)
	}
}

func TestLog_PersistLimitOption(t *testing.T) {
	snap := &memorySnapshotter{}
	l := NewLog(WithSnapshotter(snap), WithPersistLimit(3))
	for i := 0; i < 5; i++ {
		l.Record(context.Background(), models.AuditEntry{Query: fmt.Sprintf("q%d", i)})
	}
	if len(snap.saved) != 3 || snap.saved[0].Query != "q2" {
		t.Errorf("persisted %+v", snap.saved)
	}
}

func TestLog_PersistFailureKeepsEntry(t *testing.T) {
	snap := &memorySnapshotter{err: errors.New("disk full")}
	l := NewLog(WithSnapshotter(snap))

	_, err := l.Record(context.Background(), models.AuditEntry{Query: "cook"})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected persistence error, got %v", err)
	}
	if l.Len() != 1 {
		t.Errorf("entry should be kept in memory, Len = %d", l.Len())
	}
}

func TestLog_ConcurrentRecord(t *testing.T) {
	l := NewLog(WithSnapshotter(&memorySnapshotter{}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				l.Record(context.Background(), models.AuditEntry{Query: "q"})
			}
		}()
	}
	wg.Wait()

	entries := l.List()
	if len(entries) != 500 {
		t.Fatalf("expected 500 entries, got %d", len(entries))
	}
	ids := make(map[string]bool, len(entries))
	for _, e := range entries {
		ids[e.ID] = true
	}
	if len(ids) != 500 {
		t.Errorf("expected unique ids, got %d", len(ids))
	}
}

func TestLog_Export(t *testing.T) {
	l := NewLog()

	data, err := l.Export()
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty export = %q", data)
	}

	l.Record(context.Background(), models.AuditEntry{
		Query:       "farm",
		Filters:     models.Filters{Sector: "Agriculture"},
		Language:    "hi",
		InputMethod: models.InputVoice,
	})
	data, err = l.Export()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("expected indented JSON")
	}

	var decoded []models.AuditEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Filters.Sector != "Agriculture" || decoded[0].InputMethod != models.InputVoice {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestLog_WithHistory(t *testing.T) {
	history := []models.AuditEntry{
		{ID: "log_1_aaaaaaaaa", Query: "old1", SessionID: "session_1_bbbbbbbbb"},
		{ID: "log_2_ccccccccc", Query: "old2", SessionID: "session_1_bbbbbbbbb"},
	}
	snap := &memorySnapshotter{}
	l := NewLog(WithHistory(history), WithSnapshotter(snap))

	if l.Len() != 0 || len(l.List()) != 0 {
		t.Fatalf("restored entries should not be listed, got %d", l.Len())
	}
	if _, err := l.Record(context.Background(), models.AuditEntry{Query: "new"}); err != nil {
		t.Fatal(err)
	}
	if len(snap.saved) != 3 || snap.saved[0].Query != "old1" || snap.saved[2].Query != "new" {
		t.Errorf("persisted window lost history: %+v", snap.saved)
	}
	if snap.saved[2].SessionID == "session_1_bbbbbbbbb" {
		t.Error("new entries belong to the new session")
	}
	if got := l.List(); len(got) != 1 || got[0].Query != "new" {
		t.Errorf("List = %+v, want only this session's entry", got)
	}
	history[0].Query = "mutated"
	if _, err := l.Record(context.Background(), models.AuditEntry{Query: "newer"}); err != nil {
		t.Fatal(err)
	}
	if snap.saved[0].Query != "old1" {
		t.Error("history slice should be copied")
	}
}

func TestLog_WithHistoryWindow(t *testing.T) {
	var history []models.AuditEntry
	for i := 0; i < 4; i++ {
		history = append(history, models.AuditEntry{Query: fmt.Sprintf("old%d", i)})
	}
	snap := &memorySnapshotter{}
	l := NewLog(WithHistory(history), WithSnapshotter(snap), WithPersistLimit(3))

	tests := []struct {
		query string
		want  []string
	}{
		{"a", []string{"old2", "old3", "a"}},
		{"b", []string{"old3", "a", "b"}},
		{"c", []string{"a", "b", "c"}},
		{"d", []string{"b", "c", "d"}},
	}
	for _, tt := range tests {
		if _, err := l.Record(context.Background(), models.AuditEntry{Query: tt.query}); err != nil {
			t.Fatal(err)
		}
		got := make([]string, len(snap.saved))
		for i, e := range snap.saved {
			got[i] = e.Query
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("after %q window = %v, want %v", tt.query, got, tt.want)
		}
	}
	if l.Len() != 4 {
		t.Errorf("Len = %d, want 4", l.Len())
	}
}
