// Package session keeps each visitor's transient view state: the form record,
// the last submitted input, and the current decision. The store is a
// TTL-bounded redis keyspace, not a durable history - an expired session is
// simply gone, and each new submission fully replaces the decision it holds.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"credx-gateway/internal/common/config"
	stderrors "credx-gateway/internal/common/errors"
	"credx-gateway/internal/common/metrics"
	"credx-gateway/internal/intake"
)

const keyPrefix = "intake:session:"

// Session is one visitor's view state.
type Session struct {
	ID           string            `json:"id"`
	Form         *intake.FormState `json:"form"`
	CreatedAt    time.Time         `json:"createdAt"`
	LastActivity time.Time         `json:"lastActivity"`
}

// UpdateActivity refreshes the activity timestamp; Save extends the TTL from
// this moment.
func (s *Session) UpdateActivity() {
	s.LastActivity = time.Now().UTC()
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(cfg config.SessionConfig) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	return &Store{
		client: rdb,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}
}

// NewStoreWithClient wires an existing client, used by tests with miniredis.
func NewStoreWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Ping tests the store connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("session store ping failed: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Create opens a fresh session with no form state yet.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	metrics.SessionsActive.Inc()
	return sess, nil
}

// Get loads a session; a missing or expired key is SESSION_NOT_FOUND.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, stderrors.NewSessionNotFoundError(id)
		}
		return nil, fmt.Errorf("session load failed: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("session decode failed: %w", err)
	}
	return &sess, nil
}

// Save writes the session back and restarts its TTL.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	sess.UpdateActivity()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode failed: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session save failed: %w", err)
	}
	return nil
}

// Delete drops a session outright.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete failed: %w", err)
	}
	metrics.SessionsActive.Dec()
	return nil
}
