package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config path constants used by the CLI and loaders.
const (
	ConfigFileName     = ".mcquiz.yml"
	DataDirName        = ".mcquiz"
	DefaultHistoryFile = "history.duckdb"
)

// ErrConfigNotFound is returned by FindConfigPath when no file exists.
var ErrConfigNotFound = errors.New("config file not found")

// ConfigPath returns the config file path under root.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFileName)
}

// RootFromConfigPath returns the directory holding the config file.
func RootFromConfigPath(configPath string) string {
	return filepath.Dir(configPath)
}

// FindConfigPath searches upward from a directory for a config file.
func FindConfigPath(startDir string) (string, error) {
	dir := strings.TrimSpace(startDir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}
	dir = abs

	for {
		configPath := ConfigPath(dir)
		info, err := os.Stat(configPath)
		if err == nil {
			if info.IsDir() {
				return "", fmt.Errorf("config path %q is a directory", configPath)
			}
			return configPath, nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat config path %q: %w", configPath, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s in %s or parent directories", ErrConfigNotFound, ConfigFileName, abs)
		}
		dir = parent
	}
}
