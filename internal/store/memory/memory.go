// Package memory is an in-process Store with idle expiry.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"mcquiz/internal/store"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type item struct {
	data      []byte
	expiresAt time.Time
}

// Store keeps entries as encoded JSON so callers never share session memory.
type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	clock Clock
	items map[string]item
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New creates an empty store. A non-positive ttl uses store.DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = store.DefaultTTL
	}
	s := &Store{ttl: ttl, clock: systemClock{}, items: make(map[string]item)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the entry for key, or store.ErrNotFound.
func (s *Store) Load(ctx context.Context, key string) (store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return store.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	s.sweepLocked(now)
	stored, ok := s.items[key]
	if !ok {
		return store.Entry{}, store.ErrNotFound
	}
	var entry store.Entry
	if err := json.Unmarshal(stored.data, &entry); err != nil {
		return store.Entry{}, fmt.Errorf("decode session %s: %w", key, err)
	}
	stored.expiresAt = now.Add(s.ttl)
	s.items[key] = stored
	return entry, nil
}

// Save replaces the entry for key and refreshes its expiry.
func (s *Store) Save(ctx context.Context, key string, entry store.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = item{data: data, expiresAt: s.clock.Now().Add(s.ttl)}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.clock.Now())
	return len(s.items)
}

// Close drops all entries.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]item)
	return nil
}

func (s *Store) sweepLocked(now time.Time) {
	for key, stored := range s.items {
		if !now.Before(stored.expiresAt) {
			delete(s.items, key)
		}
	}
}

var _ store.Store = (*Store)(nil)
