package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
)

// Source names the surface an attempt was played on.
type Source string

const (
	SourceWeb      Source = "web"
	SourceTerminal Source = "terminal"
	SourceTelegram Source = "telegram"
)

// Attempt is one finished quiz run.
type Attempt struct {
	ID         string
	QuizKey    string
	Source     Source
	Player     string
	Mode       quiz.Mode
	Format     question.Format
	Score      int
	Total      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Filter narrows List results. Zero values mean no constraint.
type Filter struct {
	QuizKey string
	Player  string
	Limit   int
}

// Summary aggregates attempts of one quiz.
type Summary struct {
	QuizKey        string
	Attempts       int
	BestScore      int
	TotalScore     int
	TotalQuestions int
	LastFinishedAt time.Time
}

// Percent returns the share of questions answered correctly across attempts.
func (s Summary) Percent() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.TotalScore) * 100 / float64(s.TotalQuestions)
}

// Log writes and reads attempts through database/sql.
type Log struct {
	db     *sql.DB
	driver Driver
	now    func() time.Time
}

// New wraps an open database. The schema is not applied.
func New(db *sql.DB, driver Driver) *Log {
	return &Log{db: db, driver: driver, now: time.Now}
}

// Driver reports the backing driver.
func (l *Log) Driver() Driver {
	return l.driver
}

// AttemptFromSession builds an attempt for a finished session.
func AttemptFromSession(session *quiz.Session, source Source, player string, startedAt time.Time) (Attempt, error) {
	if session == nil {
		return Attempt{}, errors.New("history: session is nil")
	}
	if !session.Finished {
		return Attempt{}, errors.New("history: session is not finished")
	}
	key, err := session.Set.Fingerprint()
	if err != nil {
		return Attempt{}, err
	}
	return Attempt{
		QuizKey:   key,
		Source:    source,
		Player:    player,
		Mode:      session.Mode,
		Format:    session.Set.Format,
		Score:     session.Score,
		Total:     session.Total(),
		StartedAt: startedAt,
	}, nil
}

// Record inserts an attempt, assigning an ID and finish time when missing.
func (l *Log) Record(ctx context.Context, attempt Attempt) (Attempt, error) {
	if attempt.QuizKey == "" {
		return Attempt{}, errors.New("history: quiz key is required")
	}
	if attempt.Score < 0 || attempt.Score > attempt.Total {
		return Attempt{}, fmt.Errorf("history: score %d out of range for %d questions", attempt.Score, attempt.Total)
	}
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.FinishedAt.IsZero() {
		attempt.FinishedAt = l.now()
	}
	if attempt.StartedAt.IsZero() {
		attempt.StartedAt = attempt.FinishedAt
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO attempts (attempt_id, quiz_key, source, player, mode, format, score, total, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		attempt.ID,
		attempt.QuizKey,
		string(attempt.Source),
		attempt.Player,
		string(attempt.Mode),
		string(attempt.Format),
		int64(attempt.Score),
		int64(attempt.Total),
		attempt.StartedAt.UTC().UnixMilli(),
		attempt.FinishedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return Attempt{}, fmt.Errorf("history: record attempt: %w", err)
	}
	return attempt, nil
}

// List returns attempts newest first.
func (l *Log) List(ctx context.Context, filter Filter) ([]Attempt, error) {
	query := `SELECT attempt_id, quiz_key, source, player, mode, format, score, total, started_at, finished_at
		FROM attempts`
	var (
		clauses []string
		args    []any
	)
	if filter.QuizKey != "" {
		args = append(args, filter.QuizKey)
		clauses = append(clauses, fmt.Sprintf("quiz_key = $%d", len(args)))
	}
	if filter.Player != "" {
		args = append(args, filter.Player)
		clauses = append(clauses, fmt.Sprintf("player = $%d", len(args)))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY finished_at DESC, attempt_id ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]Attempt, 0)
	for rows.Next() {
		var (
			attempt              Attempt
			source, mode, format string
			score, total         int64
			started, finished    int64
		)
		if err := rows.Scan(&attempt.ID, &attempt.QuizKey, &source, &attempt.Player, &mode, &format, &score, &total, &started, &finished); err != nil {
			return nil, fmt.Errorf("history: scan attempt: %w", err)
		}
		attempt.Source = Source(source)
		attempt.Mode = quiz.Mode(mode)
		attempt.Format = question.Format(format)
		attempt.Score = int(score)
		attempt.Total = int(total)
		attempt.StartedAt = time.UnixMilli(started).UTC()
		attempt.FinishedAt = time.UnixMilli(finished).UTC()
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list attempts: %w", err)
	}
	return attempts, nil
}

// Summaries aggregates attempts per quiz, most recently played first.
func (l *Log) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT quiz_key,
		        CAST(COUNT(*) AS BIGINT),
		        CAST(COALESCE(MAX(score), 0) AS BIGINT),
		        CAST(COALESCE(SUM(score), 0) AS BIGINT),
		        CAST(COALESCE(SUM(total), 0) AS BIGINT),
		        CAST(MAX(finished_at) AS BIGINT)
		 FROM attempts
		 GROUP BY quiz_key
		 ORDER BY MAX(finished_at) DESC, quiz_key ASC`)
	if err != nil {
		return nil, fmt.Errorf("history: summarize attempts: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var summary Summary
		var attempts, best, score, total, last int64
		if err := rows.Scan(&summary.QuizKey, &attempts, &best, &score, &total, &last); err != nil {
			return nil, fmt.Errorf("history: scan summary: %w", err)
		}
		summary.Attempts = int(attempts)
		summary.BestScore = int(best)
		summary.TotalScore = int(score)
		summary.TotalQuestions = int(total)
		summary.LastFinishedAt = time.UnixMilli(last).UTC()
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: summarize attempts: %w", err)
	}
	return summaries, nil
}

// Close closes the database.
func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
