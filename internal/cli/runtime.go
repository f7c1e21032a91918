package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"mcquiz/internal/config"
	"mcquiz/internal/game"
	"mcquiz/internal/history"
	"mcquiz/internal/store"
	"mcquiz/internal/store/memory"
	"mcquiz/internal/store/redisstore"
)

// Test seams for infrastructure the commands open.
var (
	openHistory = history.Open
	openRedis   = redisstore.Open
)

// loadConfig resolves a config path or searches upward from CWD.
func loadConfig(configPath string) (config.Config, string, error) {
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return config.Config{}, "", fmt.Errorf("resolve config path: %w", err)
		}
		configPath = abs
	}
	return config.Resolve(configPath)
}

// openSessionStore returns the store named by session.store.
func openSessionStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Session.Store {
	case "redis":
		return openRedis(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.SessionTTL(),
		})
	default:
		return memory.New(cfg.SessionTTL()), nil
	}
}

// openAttemptLog opens the history database. A disabled history returns nil
// without error.
func openAttemptLog(ctx context.Context, cfg config.Config) (*history.Log, error) {
	driver, err := history.ParseDriver(cfg.History.Driver)
	if err != nil {
		return nil, err
	}
	attempts, err := openHistory(ctx, driver, cfg.History.DSN)
	if errors.Is(err, history.ErrDisabled) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

// newLogger writes timestamped lines to w.
func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "mcquiz ", log.LstdFlags)
}

// gameRuntime is a game service with the resources it owns.
type gameRuntime struct {
	service  *game.Service
	sessions store.Store
	attempts *history.Log
}

// openGame wires a game service for one surface.
func openGame(ctx context.Context, cfg config.Config, source history.Source, logger *log.Logger) (*gameRuntime, error) {
	sessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	attempts, err := openAttemptLog(ctx, cfg)
	if err != nil {
		_ = sessions.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}
	var recorder game.Recorder
	if attempts != nil {
		recorder = attempts
	}
	service, err := game.New(game.Config{
		Store:       sessions,
		Recorder:    recorder,
		Source:      source,
		DefaultMode: cfg.Quiz.Mode,
		Logger:      logger,
	})
	if err != nil {
		_ = sessions.Close()
		if attempts != nil {
			_ = attempts.Close()
		}
		return nil, err
	}
	return &gameRuntime{service: service, sessions: sessions, attempts: attempts}, nil
}

// Close releases the store and the history database.
func (r *gameRuntime) Close() error {
	err := r.sessions.Close()
	if r.attempts != nil {
		err = errors.Join(err, r.attempts.Close())
	}
	return err
}
