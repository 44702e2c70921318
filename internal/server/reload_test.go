package server

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/shokugyo/internal/catalog"
	"github.com/hyperjump/shokugyo/internal/search"
)

func TestReload(t *testing.T) {
	srv, _ := newTestServer(t)
	old := srv.Engine()

	err := srv.Reload(context.Background(), func(ctx context.Context) (*search.Engine, error) {
		occs, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		return search.NewEngine(occs[:2], nil, search.WithAuditLog(old.AuditLog())), nil
	})
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := srv.Engine().Stats().Occupations; got != 2 {
		t.Errorf("occupations after reload: got %d, want 2", got)
	}
	if srv.Engine().AuditLog() != old.AuditLog() {
		t.Error("audit log should be shared across reloads")
	}
}

func TestReload_FailureKeepsEngine(t *testing.T) {
	srv, _ := newTestServer(t)
	old := srv.Engine()
	boom := errors.New("bad catalog")

	err := srv.Reload(context.Background(), func(context.Context) (*search.Engine, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Reload error: got %v", err)
	}
	if srv.Engine() != old {
		t.Error("failed reload must keep the current engine")
	}
}
