// Package game applies player actions to stored quiz sessions. Every call
// loads the player's entry, changes it, and saves it back.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"mcquiz/internal/history"
	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
	"mcquiz/internal/store"
)

// Recorder persists finished attempts.
type Recorder interface {
	Record(ctx context.Context, attempt history.Attempt) (history.Attempt, error)
}

// Config wires a Service.
type Config struct {
	Store    store.Store
	Recorder Recorder
	Source   history.Source
	// DefaultMode is used when a load request does not name a mode.
	DefaultMode string
	Now         func() time.Time
	Logger      *log.Logger
}

// Service serializes actions per player key.
type Service struct {
	store       store.Store
	recorder    Recorder
	source      history.Source
	defaultMode string
	now         func() time.Time
	logger      *log.Logger

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// New validates cfg and returns a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("game: store is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = quiz.ModeAuto
	}
	if !quiz.ValidMode(cfg.DefaultMode) {
		return nil, fmt.Errorf("game: invalid default mode %q", cfg.DefaultMode)
	}
	return &Service{
		store:       cfg.Store,
		recorder:    cfg.Recorder,
		source:      cfg.Source,
		defaultMode: cfg.DefaultMode,
		now:         cfg.Now,
		logger:      cfg.Logger,
		locks:       make(map[string]*keyLock),
	}, nil
}

// LoadRequest is pasted question text with the requested format and mode.
type LoadRequest struct {
	Text   string
	Format string
	Mode   string
}

// Entry returns the stored entry for key. A missing entry is empty.
func (s *Service) Entry(ctx context.Context, key string) (store.Entry, error) {
	unlock := s.lock(key)
	defer unlock()
	return s.load(ctx, key)
}

// TakeMessages returns the entry and clears its one-shot notice and error.
func (s *Service) TakeMessages(ctx context.Context, key string) (store.Entry, error) {
	unlock := s.lock(key)
	defer unlock()
	entry, err := s.load(ctx, key)
	if err != nil {
		return store.Entry{}, err
	}
	if entry.Notice == "" && entry.Error == "" {
		return entry, nil
	}
	shown := entry
	entry.Notice = ""
	entry.Error = ""
	if err := s.save(ctx, key, entry); err != nil {
		return store.Entry{}, err
	}
	return shown, nil
}

// Load parses the text and starts a new session. Parse failures are kept
// on the entry as a user-facing error and the previous session is dropped.
func (s *Service) Load(ctx context.Context, key string, req LoadRequest) (store.Entry, error) {
	return s.update(ctx, key, func(entry *store.Entry) {
		entry.Input = req.Text
		entry.Mode = strings.TrimSpace(req.Mode)
		entry.Session = nil
		entry.Recorded = false

		format, err := question.ParseFormat(req.Format)
		if err != nil {
			entry.Error = err.Error()
			return
		}
		entry.Format = format
		set, err := question.Parse(req.Text, format)
		if err != nil {
			entry.Error = LoadMessage(err)
			return
		}
		requested := entry.Mode
		if requested == "" || requested == quiz.ModeAuto {
			requested = s.defaultMode
		}
		mode, err := quiz.ResolveMode(requested, set.Format)
		if err != nil {
			entry.Error = err.Error()
			return
		}
		session, err := quiz.New(set, mode)
		if err != nil {
			entry.Error = ActionMessage(err)
			return
		}
		entry.Format = set.Format
		entry.Session = session
		entry.StartedAt = s.now()
		entry.Notice = loadNotice(set)
	})
}

// Submit scores option against the current question.
func (s *Service) Submit(ctx context.Context, key, option string) (store.Entry, error) {
	return s.update(ctx, key, func(entry *store.Entry) {
		if entry.Session == nil {
			entry.Error = ActionMessage(ErrNoSession)
			return
		}
		if option == "" {
			entry.Error = "Select an option before submitting."
			return
		}
		record, _ := entry.Session.Current()
		outcome, err := entry.Session.Submit(option)
		if err != nil {
			entry.Error = ActionMessage(err)
			return
		}
		entry.Notice = Feedback(record, outcome)
		s.recordIfFinished(ctx, key, entry)
	})
}

// SubmitAt answers question index with the option in slot. The call is
// rejected with ErrStaleQuestion unless index is still the current question,
// so a button rendered for an earlier question cannot answer a later one.
func (s *Service) SubmitAt(ctx context.Context, key string, index, slot int) (store.Entry, error) {
	return s.update(ctx, key, func(entry *store.Entry) {
		record, ok := entry.Session.Current()
		if !ok || entry.Session.Index != index {
			entry.Error = ActionMessage(ErrStaleQuestion)
			return
		}
		if slot < 0 || slot >= question.OptionCount {
			entry.Error = ActionMessage(quiz.ErrInvalidOption)
			return
		}
		outcome, err := entry.Session.Submit(record.Options[slot])
		if err != nil {
			entry.Error = ActionMessage(err)
			return
		}
		entry.Notice = Feedback(record, outcome)
		s.recordIfFinished(ctx, key, entry)
	})
}

// Next moves to the following question.
func (s *Service) Next(ctx context.Context, key string) (store.Entry, error) {
	return s.update(ctx, key, func(entry *store.Entry) {
		if entry.Session == nil {
			entry.Error = ActionMessage(ErrNoSession)
			return
		}
		if err := navigable(entry.Session); err != nil {
			entry.Error = ActionMessage(err)
			return
		}
		entry.Session.Next()
	})
}

// Previous moves to the preceding question.
func (s *Service) Previous(ctx context.Context, key string) (store.Entry, error) {
	return s.update(ctx, key, func(entry *store.Entry) {
		if entry.Session == nil {
			entry.Error = ActionMessage(ErrNoSession)
			return
		}
		if err := navigable(entry.Session); err != nil {
			entry.Error = ActionMessage(err)
			return
		}
		entry.Session.Previous()
	})
}

func navigable(session *quiz.Session) error {
	if session.Finished {
		return quiz.ErrFinished
	}
	if !session.CanNavigate() {
		return quiz.ErrNavigationDisabled
	}
	return nil
}

// Finish ends the quiz and records the attempt.
func (s *Service) Finish(ctx context.Context, key string) (store.Entry, error) {
	return s.update(ctx, key, func(entry *store.Entry) {
		if entry.Session == nil {
			entry.Error = ActionMessage(ErrNoSession)
			return
		}
		if err := entry.Session.Finish(); err != nil {
			entry.Error = ActionMessage(err)
			return
		}
		s.recordIfFinished(ctx, key, entry)
	})
}

// Restart returns the session to its first question.
func (s *Service) Restart(ctx context.Context, key string) (store.Entry, error) {
	return s.update(ctx, key, func(entry *store.Entry) {
		if entry.Session == nil {
			entry.Error = ActionMessage(ErrNoSession)
			return
		}
		entry.Session.Restart()
		entry.Recorded = false
		entry.StartedAt = s.now()
	})
}

// Clear drops the loaded quiz but keeps the pasted text for editing.
func (s *Service) Clear(ctx context.Context, key string) (store.Entry, error) {
	return s.update(ctx, key, func(entry *store.Entry) {
		entry.Session = nil
		entry.Recorded = false
	})
}

// Forget deletes everything stored for key.
func (s *Service) Forget(ctx context.Context, key string) error {
	unlock := s.lock(key)
	defer unlock()
	return s.store.Delete(ctx, key)
}

func (s *Service) update(ctx context.Context, key string, apply func(*store.Entry)) (store.Entry, error) {
	unlock := s.lock(key)
	defer unlock()
	entry, err := s.load(ctx, key)
	if err != nil {
		return store.Entry{}, err
	}
	entry.Notice = ""
	entry.Error = ""
	apply(&entry)
	if err := s.save(ctx, key, entry); err != nil {
		return store.Entry{}, err
	}
	return entry, nil
}

func (s *Service) load(ctx context.Context, key string) (store.Entry, error) {
	entry, err := s.store.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return store.Entry{}, nil
	}
	if err != nil {
		return store.Entry{}, err
	}
	return entry, nil
}

func (s *Service) save(ctx context.Context, key string, entry store.Entry) error {
	entry.UpdatedAt = s.now()
	return s.store.Save(ctx, key, entry)
}

// recordIfFinished writes the attempt once. Failures are logged and never
// block the quiz.
func (s *Service) recordIfFinished(ctx context.Context, key string, entry *store.Entry) {
	if s.recorder == nil || entry.Session == nil || !entry.Session.Finished || entry.Recorded {
		return
	}
	attempt, err := history.AttemptFromSession(entry.Session, s.source, key, entry.StartedAt)
	if err != nil {
		s.logger.Printf("game: build attempt for %s: %v", key, err)
		return
	}
	attempt.FinishedAt = s.now()
	if _, err := s.recorder.Record(ctx, attempt); err != nil {
		s.logger.Printf("game: record attempt for %s: %v", key, err)
		return
	}
	entry.Recorded = true
}

func (s *Service) lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
