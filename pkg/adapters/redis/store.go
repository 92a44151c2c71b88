package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/richfrem/quoteagent/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "quoteagent:session:"

// Store implements ports.SessionStore using Redis.
// Sessions are JSON blobs; a sorted set indexes them by last-touched time so
// idle sessions can be swept without scanning the keyspace.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the expiration for sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func score(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

func scoreArg(t time.Time) string {
	return strconv.FormatFloat(score(t), 'f', 3, 64)
}

// Put persists the session to Redis and records its last-touched time.
func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	// A zero ttl means no expiration.
	pipe.Set(ctx, s.key(session.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score(session.UpdatedAt),
		Member: session.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get retrieves the session from Redis.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if session.Captured == nil {
		session.Captured = make(map[string]string)
	}
	return &session, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(sessionID))
	pipe.ZRem(ctx, s.indexKey(), sessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns the indexed sessions, oldest first.
// Index entries whose blob already expired through the TTL are pruned lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if s.ttl > 0 {
		cutoff := scoreArg(time.Now().Add(-s.ttl))
		if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+cutoff).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
		}
	}

	sessions, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// sweepScript drops every index member scored before ARGV[2] together with
// its blob. It runs atomically, so a session touched after the cutoff is
// never deleted.
var sweepScript = backend.NewScript(`
local ids = redis.call("zrangebyscore", KEYS[1], "-inf", "(" .. ARGV[2])
for _, id in ipairs(ids) do
	redis.call("del", ARGV[1] .. id)
	redis.call("zrem", KEYS[1], id)
end
return #ids
`)

// Sweep removes sessions whose last-touched time is older than maxAge.
func (s *Store) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := scoreArg(time.Now().Add(-maxAge))

	removed, err := sweepScript.Run(ctx, s.client, []string{s.indexKey()}, s.prefix, cutoff).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	return removed, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
