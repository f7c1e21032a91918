package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestParseRejectsUnknownFields verifies typos in the config are reported.
func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("server:\n  adr: \":9000\"\n"))
	if err == nil || !strings.Contains(err.Error(), "adr") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

// TestParseRejectsMultipleDocuments verifies a single YAML document is required.
func TestParseRejectsMultipleDocuments(t *testing.T) {
	_, err := Parse([]byte("quiz:\n  mode: review\n---\nquiz:\n  mode: auto\n"))
	if err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
		t.Fatalf("expected multiple documents error, got %v", err)
	}
}

// TestNormalizeDefaults verifies an empty config gets working defaults.
func TestNormalizeDefaults(t *testing.T) {
	cfg := Default("/srv/quiz")
	if cfg.Server.Addr != DefaultAddr {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Session.Store != "memory" || cfg.Session.CookieName != DefaultCookieName {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %v", cfg.SessionTTL())
	}
	if cfg.History.Driver != "duckdb" || cfg.History.DSN != filepath.Join("/srv/quiz", ".mcquiz", "history.duckdb") {
		t.Fatalf("unexpected history defaults: %+v", cfg.History)
	}
	if cfg.Quiz.Mode != "auto" {
		t.Fatalf("expected auto mode, got %q", cfg.Quiz.Mode)
	}
	if err := Validate(&cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

// TestNormalizeRedisAddr verifies the redis store gets a default address.
func TestNormalizeRedisAddr(t *testing.T) {
	cfg := Config{Session: SessionConfig{Store: " Redis "}}
	Normalize(&cfg, ".")
	if cfg.Session.Store != "redis" || cfg.Redis.Addr != DefaultRedisAddr {
		t.Fatalf("unexpected redis defaults: %+v %+v", cfg.Session, cfg.Redis)
	}
}

// TestValidateCollectsIssues verifies every bad field is reported at once.
func TestValidateCollectsIssues(t *testing.T) {
	cfg := Config{
		Server:  ServerConfig{AllowedOrigins: []string{"example.com"}},
		Session: SessionConfig{Store: "disk", TTL: "soon"},
		History: HistoryConfig{Driver: "mysql"},
		Quiz:    QuizConfig{Mode: "random"},
	}
	Normalize(&cfg, ".")
	err := Validate(&cfg)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, issue := range validationErr.Issues {
		fields[issue.Field] = true
	}
	for _, field := range []string{"session.store", "session.ttl", "history.driver", "quiz.mode", "server.allowed_origins[0]"} {
		if !fields[field] {
			t.Fatalf("expected issue for %s, got %+v", field, validationErr.Issues)
		}
	}
}

// TestValidatePostgresNeedsDSN verifies postgres cannot fall back to a file.
func TestValidatePostgresNeedsDSN(t *testing.T) {
	cfg := Config{History: HistoryConfig{Driver: "postgres"}}
	Normalize(&cfg, ".")
	if err := Validate(&cfg); err == nil || !strings.Contains(err.Error(), "history.dsn") {
		t.Fatalf("expected history.dsn issue, got %v", err)
	}
}

// TestScaffoldThenLoad verifies the scaffolded file loads cleanly.
func TestScaffoldThenLoad(t *testing.T) {
	root := t.TempDir()
	path := ConfigPath(root)
	if err := Scaffold(path, false); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if err := Scaffold(path, false); err == nil {
		t.Fatalf("expected error when config already exists")
	}
	if err := Scaffold(path, true); err != nil {
		t.Fatalf("scaffold with force: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load scaffold: %v", err)
	}
	if cfg.History.DSN != filepath.Join(root, ".mcquiz", "history.duckdb") {
		t.Fatalf("expected dsn under root, got %q", cfg.History.DSN)
	}
}

// TestFindConfigPathSearchesParents verifies upward discovery.
func TestFindConfigPathSearchesParents(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(ConfigPath(root), []byte("quiz:\n  mode: review\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find config: %v", err)
	}
	if found != ConfigPath(root) {
		t.Fatalf("expected %q, got %q", ConfigPath(root), found)
	}
}

// TestFindConfigPathMissing verifies the not-found sentinel.
func TestFindConfigPathMissing(t *testing.T) {
	_, err := FindConfigPath(t.TempDir())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}
