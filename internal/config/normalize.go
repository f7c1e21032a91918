package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Defaults applied by Normalize.
const (
	DefaultAddr        = "127.0.0.1:8080"
	DefaultCookieName  = "mcquiz_session"
	DefaultSessionTTL  = "24h"
	DefaultRedisAddr   = "127.0.0.1:6379"
	DefaultPollTimeout = 60
)

// Normalize trims values and fills defaults. Relative file DSNs are
// resolved against root.
func Normalize(cfg *Config, root string) {
	cfg.Server.Addr = strings.TrimSpace(cfg.Server.Addr)
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	origins := cfg.Server.AllowedOrigins[:0]
	for _, origin := range cfg.Server.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	cfg.Server.AllowedOrigins = origins

	cfg.Session.Store = strings.ToLower(strings.TrimSpace(cfg.Session.Store))
	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
	}
	if strings.TrimSpace(cfg.Session.TTL) == "" {
		cfg.Session.TTL = DefaultSessionTTL
	}
	if strings.TrimSpace(cfg.Session.CookieName) == "" {
		cfg.Session.CookieName = DefaultCookieName
	}
	if cfg.Session.Store == "redis" && strings.TrimSpace(cfg.Redis.Addr) == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}

	cfg.History.Driver = strings.ToLower(strings.TrimSpace(cfg.History.Driver))
	if cfg.History.Driver == "" {
		cfg.History.Driver = "duckdb"
	}
	cfg.History.DSN = strings.TrimSpace(cfg.History.DSN)
	switch cfg.History.Driver {
	case "duckdb":
		if cfg.History.DSN == "" {
			cfg.History.DSN = DefaultHistoryDSN(root)
		}
		cfg.History.DSN = resolveFile(root, cfg.History.DSN)
	case "sqlite", "sqlite3":
		if cfg.History.DSN == "" {
			cfg.History.DSN = filepath.Join(root, DataDirName, "history.db")
		}
		if !strings.HasPrefix(cfg.History.DSN, "file:") {
			cfg.History.DSN = resolveFile(root, cfg.History.DSN)
		}
	}

	cfg.Quiz.Mode = strings.ToLower(strings.TrimSpace(cfg.Quiz.Mode))
	if cfg.Quiz.Mode == "" {
		cfg.Quiz.Mode = "auto"
	}

	if cfg.Telegram.PollTimeout <= 0 {
		cfg.Telegram.PollTimeout = DefaultPollTimeout
	}
	if path := strings.TrimSpace(cfg.Telegram.QuestionsFile); path != "" {
		cfg.Telegram.QuestionsFile = resolveFile(root, path)
	}
}

// SessionTTL parses session.ttl. Validate has already checked it.
func (cfg Config) SessionTTL() time.Duration {
	ttl, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		return 0
	}
	return ttl
}

func resolveFile(root, path string) string {
	if path == ":memory:" || filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}
