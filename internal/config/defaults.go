package config

import (
	"github.com/hyperjump/shokugyo/internal/audit"
	"github.com/hyperjump/shokugyo/internal/i18n"
	"github.com/hyperjump/shokugyo/internal/suggest"
)

// DefaultSnapshotPath is where the audit snapshot lives when the config does not say.
const DefaultSnapshotPath = "/usr/local/var/shokugyo/data/audit.db"

// Default returns a fully defaulted config, used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Catalog.DebounceMs == 0 {
		cfg.Catalog.DebounceMs = 500
	}
	if cfg.Audit.SnapshotPath == "" {
		cfg.Audit.SnapshotPath = DefaultSnapshotPath
	}
	if cfg.Audit.PersistLimit == 0 {
		cfg.Audit.PersistLimit = audit.DefaultPersistLimit
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.SuggestionLimit <= 0 || cfg.Search.SuggestionLimit > suggest.DefaultLimit {
		cfg.Search.SuggestionLimit = suggest.DefaultLimit
	}
	if cfg.Search.SuggestionCacheSize == 0 {
		cfg.Search.SuggestionCacheSize = suggest.DefaultCacheSize
	}
	if cfg.Search.DefaultLanguage == "" {
		cfg.Search.DefaultLanguage = i18n.DefaultLanguage
	}
	cfg.Search.Ranking.ApplyDefaults()
}
