package config

import (
	"fmt"
	"os"
)

const defaultConfig = `# mcquiz configuration
server:
  addr: "127.0.0.1:8080"
  allowed_origins: []

session:
  store: memory # memory | redis
  ttl: 24h
  cookie_name: mcquiz_session

redis:
  addr: "127.0.0.1:6379"
  password: ""
  db: 0

history:
  driver: duckdb # duckdb | sqlite | postgres | none
  dsn: ".mcquiz/history.duckdb"

quiz:
  mode: auto # auto | immediate | review

telegram:
  token: ""
  questions_file: ""
  poll_timeout: 60
`

// DefaultConfigText returns the YAML written by Scaffold.
func DefaultConfigText() string {
	return defaultConfig
}

// Scaffold writes the default config to path. Existing files are kept
// unless force is set.
func Scaffold(path string, force bool) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", path)
		}
		if !force {
			return fmt.Errorf("config file already exists at %q", path)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
