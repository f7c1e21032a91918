package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Parse decodes a single YAML document, rejecting unknown fields.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	Normalize(&cfg, RootFromConfigPath(path))
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve loads the config at path, or searches upward from the working
// directory when path is empty. No config file yields the defaults rooted
// at the working directory.
func Resolve(path string) (Config, string, error) {
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	found, err := FindConfigPath("")
	if err == nil {
		cfg, err := Load(found)
		return cfg, found, err
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return Config{}, "", err
	}
	wd, err := os.Getwd()
	if err != nil {
		return Config{}, "", fmt.Errorf("get working directory: %w", err)
	}
	cfg := Default(wd)
	return cfg, "", nil
}

// Default returns a normalized config for a root without a config file.
func Default(root string) Config {
	var cfg Config
	Normalize(&cfg, root)
	return cfg
}

// DefaultHistoryDSN is the DuckDB file used when history.dsn is empty.
func DefaultHistoryDSN(root string) string {
	return filepath.Join(root, DataDirName, DefaultHistoryFile)
}
