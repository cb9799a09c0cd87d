package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "medical:session"

// RedisStore persists the session under a single Redis key. It exists for
// deployments that embed the client in a service where several replicas must
// share one portal session, for example a reporting job behind a scheduler.
type RedisStore struct {
	rdb   *redis.Client
	clock clockwork.Clock
	key   string
	ttl   time.Duration
}

type RedisOption func(*RedisStore)

// WithKey overrides the Redis key the session is stored under.
func WithKey(key string) RedisOption {
	return func(s *RedisStore) { s.key = key }
}

// WithTTL expires the stored session after d. Zero keeps it until cleared.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

// NewRedisStore creates a RedisStore from a URL (e.g. "redis://localhost:6379").
func NewRedisStore(redisURL string, clock clockwork.Clock, opts ...RedisOption) (*RedisStore, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	s := &RedisStore{rdb: redis.NewClient(parsed), clock: clock, key: defaultRedisKey}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Ping verifies the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) Save(ctx context.Context, token string, user *User) error {
	data, err := json.Marshal(record{Token: token, User: user.clone(), SavedAt: s.clock.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	// DEL on a missing key is already a no-op.
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) CurrentUser(ctx context.Context) (*User, bool) {
	rec, ok := s.load(ctx)
	if !ok || rec.User == nil {
		return nil, false
	}
	return rec.User.clone(), true
}

func (s *RedisStore) Token(ctx context.Context) (string, bool) {
	rec, ok := s.load(ctx)
	if !ok || rec.Token == "" {
		return "", false
	}
	return rec.Token, true
}

func (s *RedisStore) HasToken(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

func (s *RedisStore) load(ctx context.Context) (record, bool) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "Failed to read session from redis, treating as absent", "error", err)
		}
		return record{}, false
	}

	rec, err := decodeRecord(data)
	if err != nil {
		slog.DebugContext(ctx, "Session value is not valid JSON, treating as absent", "key", s.key, "error", err)
		return record{}, false
	}
	return rec, true
}
