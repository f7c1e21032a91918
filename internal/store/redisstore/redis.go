// Package redisstore keeps quiz entries in Redis so several servers can share
// player sessions.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mcquiz/internal/store"
)

// DefaultPrefix namespaces keys written by the store.
const DefaultPrefix = "mcquiz:session:"

// Config describes the Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// Store is a store.Store backed by Redis string keys with expiry.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Open connects and pings Redis.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}
	return New(client, cfg.Prefix, cfg.TTL), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = store.DefaultTTL
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

// Load fetches and refreshes the entry for key.
func (s *Store) Load(ctx context.Context, key string) (store.Entry, error) {
	data, err := s.client.GetEx(ctx, s.prefix+key, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.Entry{}, store.ErrNotFound
	}
	if err != nil {
		return store.Entry{}, fmt.Errorf("load session %s: %w", key, err)
	}
	var entry store.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return store.Entry{}, fmt.Errorf("decode session %s: %w", key, err)
	}
	return entry, nil
}

// Save writes the entry with the configured expiry.
func (s *Store) Save(ctx context.Context, key string, entry store.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", key, err)
	}
	return nil
}

// Delete removes the entry for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

var _ store.Store = (*Store)(nil)
