package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type changeLog struct {
	mu    sync.Mutex
	paths []string
}

func (c *changeLog) record(path string) {
	c.mu.Lock()
	c.paths = append(c.paths, path)
	c.mu.Unlock()
}

func (c *changeLog) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nco.yaml")
	if err := writeFile(path, "occupations: []\n"); err != nil {
		t.Fatal(err)
	}

	changes := &changeLog{}
	w := NewWatcher(path, changes.record, WithDebounce(100*time.Millisecond), WithLogger(zap.NewNop()))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 3; i++ {
		if err := writeFile(path, "occupations: []\n# edit\n"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)
	if n := changes.count(); n != 1 {
		t.Errorf("expected one debounced callback, got %d", n)
	}
	changes.mu.Lock()
	defer changes.mu.Unlock()
	if len(changes.paths) > 0 && changes.paths[0] != w.Path() {
		t.Errorf("callback path: got %q, want %q", changes.paths[0], w.Path())
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nco.yaml")
	if err := writeFile(path, "occupations: []\n"); err != nil {
		t.Fatal(err)
	}
	changes := &changeLog{}
	w := NewWatcher(path, changes.record, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := writeFile(filepath.Join(dir, "other.yaml"), "x"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if n := changes.count(); n != 0 {
		t.Errorf("sibling write should not trigger a reload, got %d", n)
	}
}

func TestWatcher_ReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nco.yaml")
	if err := writeFile(path, "occupations: []\n"); err != nil {
		t.Fatal(err)
	}
	changes := &changeLog{}
	w := NewWatcher(path, changes.record, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	tmp := filepath.Join(dir, ".nco.yaml.tmp")
	if err := writeFile(tmp, "occupations: []\n# replaced\n"); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)
	if n := changes.count(); n != 1 {
		t.Errorf("expected one callback after rename, got %d", n)
	}
}

func TestWatcher_StopCancelsPending(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nco.yaml")
	if err := writeFile(path, "a"); err != nil {
		t.Fatal(err)
	}
	changes := &changeLog{}
	w := NewWatcher(path, changes.record, WithDebounce(time.Hour))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.Stop()
	w.Stop()
	if n := changes.count(); n != 0 {
		t.Errorf("stopped watcher fired %d callbacks", n)
	}
}

func TestWatcher_StartErrors(t *testing.T) {
	dir := t.TempDir()
	if err := NewWatcher(filepath.Join(dir, "missing.yaml"), nil).Start(context.Background()); err == nil {
		t.Error("expected error for a missing file")
	}
	if err := NewWatcher(dir, nil).Start(context.Background()); err == nil {
		t.Error("expected error for a directory")
	}
}

func TestWatcher_ContextCancelStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nco.yaml")
	if err := writeFile(path, "a"); err != nil {
		t.Fatal(err)
	}
	w := NewWatcher(path, nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	select {
	case <-w.done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after context cancel")
	}
}
