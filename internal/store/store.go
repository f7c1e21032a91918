// Package store persists per-player quiz state between requests.
package store

import (
	"context"
	"errors"
	"time"

	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
)

// ErrNotFound is returned when no entry exists for a key or it expired.
var ErrNotFound = errors.New("session not found")

// Entry is everything kept for one player: the last pasted input, the
// chosen format and mode, the live session, and a one-shot notice.
type Entry struct {
	Input   string          `json:"input"`
	Format  question.Format `json:"format"`
	Mode    string          `json:"mode"`
	Session *quiz.Session   `json:"session,omitempty"`
	// Notice is shown once on the next render, then cleared.
	Notice string `json:"notice,omitempty"`
	// Error is a user-facing load or action failure.
	Error string `json:"error,omitempty"`
	// Recorded marks that the finished attempt was written to history.
	Recorded  bool      `json:"recorded,omitempty"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store loads and saves entries by player key.
type Store interface {
	Load(ctx context.Context, key string) (Entry, error)
	Save(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultTTL is how long an idle entry is kept.
const DefaultTTL = 24 * time.Hour
