package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"mcquiz/internal/web"
)

// TestServeCommandRejectsArguments verifies serve takes flags only.
func TestServeCommandRejectsArguments(t *testing.T) {
	cmd := findCommand("serve")
	if cmd == nil {
		t.Fatalf("serve command not found")
	}
	var stdout, stderr bytes.Buffer
	exitCode := cmd.Run([]string{"extra"}, &stdout, &stderr)
	if exitCode != ExitUsage {
		t.Fatalf("expected usage exit, got %d", exitCode)
	}
}

// TestServeCommandPassesConfig ensures serve forwards the config to the server layer.
func TestServeCommandPassesConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, `server:
  addr: "127.0.0.1:9000"
  allowed_origins: ["https://quiz.example.com"]
session:
  ttl: 2h
  cookie_name: quiz_cookie
`)

	var gotConfig web.Config
	origServe := serveWeb
	serveWeb = func(_ context.Context, cfg web.Config) error {
		gotConfig = cfg
		return nil
	}
	t.Cleanup(func() { serveWeb = origServe })

	var stdout, stderr bytes.Buffer
	exitCode := Run([]string{"serve", "--config", configPath, "--addr", "127.0.0.1:5050"}, &stdout, &stderr)
	if exitCode != ExitOK {
		t.Fatalf("expected exit ok, got %d: %s", exitCode, stderr.String())
	}
	if gotConfig.Addr != "127.0.0.1:5050" {
		t.Fatalf("unexpected addr: %s", gotConfig.Addr)
	}
	if gotConfig.CookieName != "quiz_cookie" || gotConfig.CookieTTL != 2*time.Hour {
		t.Fatalf("unexpected cookie settings: %s %s", gotConfig.CookieName, gotConfig.CookieTTL)
	}
	if len(gotConfig.AllowedOrigins) != 1 || gotConfig.AllowedOrigins[0] != "https://quiz.example.com" {
		t.Fatalf("unexpected origins: %v", gotConfig.AllowedOrigins)
	}
	if gotConfig.Game == nil {
		t.Fatalf("expected game service")
	}
}

// TestServeCommandRejectsInvalidConfig verifies config issues stop startup.
func TestServeCommandRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, ".mcquiz.yml", "session:\n  store: disk\n")
	var stdout, stderr bytes.Buffer
	exitCode := Run([]string{"serve", "--config", configPath}, &stdout, &stderr)
	if exitCode != ExitError {
		t.Fatalf("expected exit error, got %d", exitCode)
	}
	if !bytes.Contains(stderr.Bytes(), []byte("session.store")) {
		t.Fatalf("expected session.store issue, got %q", stderr.String())
	}
}
