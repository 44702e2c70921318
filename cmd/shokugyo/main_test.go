package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
	"github.com/hyperjump/shokugyo/internal/catalog"
	"github.com/hyperjump/shokugyo/internal/config"
	"github.com/hyperjump/shokugyo/internal/models"
	"go.uber.org/zap"
)

func TestSearchArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"software developer", "-limit", "5"},
			expected: []string{"-limit", "5", "software developer"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-limit", "5", "software developer"},
			expected: []string{"-limit", "5", "software developer"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"software developer"},
			expected: []string{"software developer"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"farm", "worker", "-skill-level", "2"},
			expected: []string{"-skill-level", "2", "farm", "worker"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchArgsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("searchArgsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"cook"}, "cook"},
		{"multiple words", []string{"software", "developer"}, "software developer"},
		{"single quoted phrase", []string{"software developer"}, "software developer"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSearchQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestSearchConfigPathFromArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		defaultPath string
		want        string
	}{
		{"no config flag", []string{"-limit", "5", "query"}, "/default.yaml", "/default.yaml"},
		{"-config present", []string{"-config", "/custom.yaml", "query"}, "/default.yaml", "/custom.yaml"},
		{"--config present", []string{"--config", "/other.yaml"}, "/default.yaml", "/other.yaml"},
		{"--config= form", []string{"--config=/eq.yaml", "cook"}, "/default.yaml", "/eq.yaml"},
		{"config at end", []string{"query", "-config", "/end.yaml"}, "/default.yaml", "/end.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchConfigPathFromArgs(tt.args, tt.defaultPath)
			if got != tt.want {
				t.Errorf("searchConfigPathFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchDefaultsFromConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
search:
  default_limit: 4
  default_language: hi
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	limit, lang := searchDefaultsFromConfig(configPath)
	if limit != 4 || lang != "hi" {
		t.Errorf("searchDefaultsFromConfig() = %d, %q; want 4, hi", limit, lang)
	}
	limit, lang = searchDefaultsFromConfig(filepath.Join(dir, "nonexistent.yaml"))
	if limit != 10 || lang != "en" {
		t.Errorf("searchDefaultsFromConfig(nonexistent) = %d, %q; want 10, en", limit, lang)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	chdirForTest(t, dir)

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_defaultsWithoutFile(t *testing.T) {
	if _, err := os.Stat(defaultConfigPath); err == nil {
		t.Skip("system config present")
	}
	chdirForTest(t, t.TempDir())

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved = %q, want empty for built-in defaults", resolved)
	}
	if cfg.Server.Port != 8080 || cfg.Search.DefaultLimit != 10 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestInitializeComponents_persistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Audit.SnapshotPath = filepath.Join(dir, "audit.db")
	ctx := context.Background()

	for i, q := range []string{"cook", "farm worker"} {
		c, err := initializeComponents(ctx, cfg, zap.NewNop(), true)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		out := c.Engine.SearchSafe(ctx, q, models.Filters{}, 5, "en", models.InputText)
		if out.Err != nil {
			t.Fatalf("run %d: %+v", i, out.Err)
		}
		if got := c.Engine.ListAuditLog(); len(got) != 1 || got[0].Query != q {
			t.Errorf("run %d listed %+v, want only its own search", i, got)
		}
		c.Close()
	}

	entries, err := loadAuditSnapshot(ctx, cfg.Audit.SnapshotPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Query != "cook" || entries[1].Query != "farm worker" {
		t.Errorf("snapshot after two runs: %+v", entries)
	}
	if entries[0].SessionID == entries[1].SessionID {
		t.Error("each run should have its own session id")
	}
}

func TestInitializeComponents_withoutPersistence(t *testing.T) {
	cfg := config.Default()
	cfg.Audit.SnapshotPath = filepath.Join(t.TempDir(), "audit.json")
	c, err := initializeComponents(context.Background(), cfg, zap.NewNop(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.Store != nil {
		t.Error("store should not be opened without persistence")
	}
	if !c.Engine.Stats().SpellingEnabled {
		t.Error("did-you-mean should be enabled by default")
	}
}

func TestBuildEngine_catalogFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nco.xlsx")
	n, err := exportCatalog(context.Background(), "", path)
	if err != nil {
		t.Fatalf("exportCatalog: %v", err)
	}
	if n != 10 {
		t.Errorf("exported %d occupations, want 10", n)
	}

	cfg := config.Default()
	cfg.Catalog.Path = path
	f := false
	cfg.Search.DidYouMean = &f
	engine, err := buildEngine(context.Background(), cfg, zap.NewNop(), nil)
	if err != nil {
		t.Fatalf("buildEngine: %v", err)
	}
	defer engine.Close()
	if got := engine.Stats().Occupations; got != 10 {
		t.Errorf("occupations: got %d", got)
	}
	if engine.Stats().SpellingEnabled {
		t.Error("did_you_mean: false should disable spelling")
	}
	if _, ok := engine.Lookup("25210201"); !ok {
		t.Error("Software Developer missing from xlsx catalog")
	}
}

func TestExportCatalog_unsupported(t *testing.T) {
	if _, err := exportCatalog(context.Background(), "", filepath.Join(t.TempDir(), "nco.csv")); err == nil {
		t.Fatal("expected error for .csv")
	}
}

func TestExportAudit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.json")
	entries := []models.AuditEntry{{ID: "log_1_abcdefabc", Query: "cook"}}
	if err := exportAudit(entries, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []models.AuditEntry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Query != "cook" {
		t.Errorf("exported: %+v", got)
	}
}

func TestCatalogDefaultMatchesEmbedded(t *testing.T) {
	occs, err := catalog.Open("").Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(occs) != 10 {
		t.Errorf("embedded catalog: got %d occupations", len(occs))
	}
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatal(err)
		}
	})
}
