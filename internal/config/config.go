// Package config provides configuration loading and structs for the shokugyo server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/shokugyo/internal/ranking"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Audit   AuditConfig   `yaml:"audit"`
	Search  SearchConfig  `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig selects the occupation catalog. An empty Path uses the embedded seed catalog.
type CatalogConfig struct {
	Path       string `yaml:"path"`
	Watch      bool   `yaml:"watch"`
	DebounceMs int    `yaml:"debounce_ms"`
}

// Debounce returns the reload debounce as a duration.
func (c CatalogConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// AuditConfig holds audit log persistence settings. The snapshot store is chosen by the
// extension of SnapshotPath; an empty path keeps the audit log in memory only.
type AuditConfig struct {
	SnapshotPath string `yaml:"snapshot_path"`
	PersistLimit int    `yaml:"persist_limit"`
}

// SearchConfig holds query defaults, suggestion settings, and ranking weights.
type SearchConfig struct {
	DefaultLimit        int                   `yaml:"default_limit"`
	MaxLimit            int                   `yaml:"max_limit"`
	SuggestionLimit     int                   `yaml:"suggestion_limit"`
	SuggestionCacheSize int                   `yaml:"suggestion_cache_size"`
	DefaultLanguage     string                `yaml:"default_language"`
	DidYouMean          *bool                 `yaml:"did_you_mean"`
	Ranking             ranking.RankingConfig `yaml:"ranking"`
}

// DidYouMeanOrDefault returns whether no-match errors carry a spelling correction; defaults to true when unset.
func (s *SearchConfig) DidYouMeanOrDefault() bool {
	if s.DidYouMean != nil {
		return *s.DidYouMean
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Catalog.Path = expandPath(cfg.Catalog.Path, configDir)
	cfg.Audit.SnapshotPath = expandPath(cfg.Audit.SnapshotPath, configDir)

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty stays empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
