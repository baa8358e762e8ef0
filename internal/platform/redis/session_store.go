package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain/quiz"
	"github.com/phrazzld/kinetic-api/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces session keys.
const KeyPrefix = "kinetic:quiz-session:"

// maxUpdateAttempts bounds optimistic retries when a watched key changes.
const maxUpdateAttempts = 5

// SessionStore implements store.SessionStore using go-redis.
type SessionStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewClient parses a redis:// URL and verifies the server answers.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// NewSessionStore wraps an existing client. A non-positive ttl falls back
// to store.DefaultSessionTTL.
func NewSessionStore(client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = store.DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionStore{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_session_store")),
	}
}

func sessionKey(id uuid.UUID) string {
	return KeyPrefix + id.String()
}

// Create implements store.SessionStore.
func (s *SessionStore) Create(ctx context.Context, session *quiz.Session) error {
	if session == nil || session.ID == uuid.Nil {
		return store.ErrInvalidEntity
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return store.NewStoreError("session", "create", "failed to encode session", err)
	}

	ok, err := s.client.SetNX(ctx, sessionKey(session.ID), raw, s.ttl).Result()
	if err != nil {
		return store.NewStoreError("session", "create", "redis write failed", err)
	}
	if !ok {
		return store.ErrDuplicate
	}
	return nil
}

// Get implements store.SessionStore. Reading refreshes the key's TTL.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*quiz.Session, error) {
	raw, err := s.client.GetEx(ctx, sessionKey(id), s.ttl).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("session", "get", "redis read failed", err)
	}
	return decodeSession(raw)
}

// Update implements store.SessionStore with WATCH/MULTI. If another writer
// touches the key between the read and the write the transaction is
// retried; after maxUpdateAttempts it gives up with store.ErrConflict.
func (s *SessionStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fn func(*quiz.Session) error,
) (*quiz.Session, error) {
	key := sessionKey(id)
	var result *quiz.Session

	txf := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return store.ErrSessionNotFound
		}
		if err != nil {
			return store.NewStoreError("session", "update", "redis read failed", err)
		}

		session, err := decodeSession(raw)
		if err != nil {
			return err
		}
		if err := fn(session); err != nil {
			return err
		}

		encoded, err := json.Marshal(session)
		if err != nil {
			return store.NewStoreError("session", "update", "failed to encode session", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		result = session
		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, goredis.TxFailedErr) {
			return nil, err
		}
		s.logger.DebugContext(ctx, "quiz session changed during update, retrying",
			slog.String("session_id", id.String()),
			slog.Int("attempt", attempt))
	}

	return nil, fmt.Errorf("%w: quiz session %s", store.ErrConflict, id)
}

// Delete implements store.SessionStore.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return store.NewStoreError("session", "delete", "redis delete failed", err)
	}
	return nil
}

func decodeSession(raw []byte) (*quiz.Session, error) {
	var session quiz.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, store.NewStoreError("session", "decode", "stored session is corrupt", err)
	}
	return &session, nil
}
