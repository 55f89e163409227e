// Package redis provides a Redis-backed run store and distributed locker,
// suitable for multi-instance deployments where runs outlive a single process.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.RunStore using Redis. Runs are stored as JSON under
// a prefixed key, with a ZSET index keeping the full run listing.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for persisted runs. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix overrides the key prefix for runs.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store connected to the given address.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "espalier:run:",
		ttl:    0,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(runID string) string {
	return s.prefix + runID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the run state to Redis and registers it in the index.
func (s *Store) Save(ctx context.Context, runID string, state *domain.RunState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(runID), data, s.ttl)

	// Index score is the expiry instant, so the index lists runs in expiry
	// order; with no TTL the score is pushed far into the future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: runID})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run to redis: %w", err)
	}
	return nil
}

// Load retrieves a run state, or domain.ErrRunNotFound if absent or expired.
func (s *Store) Load(ctx context.Context, runID string) (*domain.RunState, error) {
	val, err := s.client.Get(ctx, s.key(runID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to load run from redis: %w", err)
	}

	var state domain.RunState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run state: %w", err)
	}
	return &state, nil
}

// Delete removes a run and its index entry.
func (s *Store) Delete(ctx context.Context, runID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(runID))
	pipe.ZRem(ctx, s.indexKey(), runID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete run from redis: %w", err)
	}
	return nil
}

// List returns the ids of all live runs, pruning index entries whose keys
// have already expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(members) == 0 {
		return members, nil
	}

	// Run keys expire server-side while their index entries linger, so each
	// member is confirmed against the server before it is reported.
	pipe := s.client.Pipeline()
	checks := make([]*backend.IntCmd, len(members))
	for i, runID := range members {
		checks[i] = pipe.Exists(ctx, s.key(runID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check run keys: %w", err)
	}

	live := make([]string, 0, len(members))
	var stale []any
	for i, runID := range members {
		if checks[i].Val() > 0 {
			live = append(live, runID)
		} else {
			stale = append(stale, runID)
		}
	}
	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune run index: %w", err)
		}
	}
	return live, nil
}

// Close closes the underlying redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
