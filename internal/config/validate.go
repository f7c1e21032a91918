package config

import (
	"fmt"
	"strings"
	"time"

	"mcquiz/internal/history"
	"mcquiz/internal/quiz"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks a normalized config.
func Validate(cfg *Config) error {
	collector := &issueCollector{}

	switch cfg.Session.Store {
	case "memory", "redis":
	default:
		collector.add("session.store", fmt.Sprintf("unsupported store %q (expected memory|redis)", cfg.Session.Store))
	}
	if ttl, err := time.ParseDuration(cfg.Session.TTL); err != nil {
		collector.add("session.ttl", fmt.Sprintf("invalid duration %q", cfg.Session.TTL))
	} else if ttl <= 0 {
		collector.add("session.ttl", "must be positive")
	}
	if strings.ContainsAny(cfg.Session.CookieName, " ;,=\t") {
		collector.add("session.cookie_name", "must not contain spaces or separators")
	}
	if cfg.Redis.DB < 0 {
		collector.add("redis.db", "must be >= 0")
	}

	driver, err := history.ParseDriver(cfg.History.Driver)
	if err != nil {
		collector.add("history.driver", err.Error())
	} else if driver == history.DriverPostgres && cfg.History.DSN == "" {
		collector.add("history.dsn", "is required for postgres")
	}

	if !quiz.ValidMode(cfg.Quiz.Mode) {
		collector.add("quiz.mode", fmt.Sprintf("unsupported mode %q (expected auto|immediate|review)", cfg.Quiz.Mode))
	}
	for i, origin := range cfg.Server.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			collector.add(fmt.Sprintf("server.allowed_origins[%d]", i), "must be * or an http(s) origin")
		}
	}
	if cfg.Telegram.PollTimeout > 600 {
		collector.add("telegram.poll_timeout", "must be at most 600 seconds")
	}
	return collector.result()
}
