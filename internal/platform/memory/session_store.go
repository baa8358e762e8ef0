package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain/quiz"
	"github.com/phrazzld/kinetic-api/internal/store"
)

type sessionEntry struct {
	session   *quiz.Session
	expiresAt time.Time
}

// SessionStore implements store.SessionStore in memory. Each access pushes
// the session's expiry out by the TTL.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]sessionEntry
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty store. A non-positive ttl falls back to
// store.DefaultSessionTTL.
func NewSessionStore(ttl time.Duration, logger *slog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = store.DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionStore{
		sessions: make(map[uuid.UUID]sessionEntry),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "memory_session_store")),
	}
}

// Create implements store.SessionStore.
func (s *SessionStore) Create(ctx context.Context, session *quiz.Session) error {
	if session == nil || session.ID == uuid.Nil {
		return store.ErrInvalidEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[session.ID]; ok && s.now().Before(e.expiresAt) {
		return store.ErrDuplicate
	}
	s.sessions[session.ID] = sessionEntry{session: session.Clone(), expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Get implements store.SessionStore.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*quiz.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.live(id)
	if err != nil {
		return nil, err
	}
	e.expiresAt = s.now().Add(s.ttl)
	s.sessions[id] = e
	return e.session.Clone(), nil
}

// Update implements store.SessionStore. fn runs under the store lock on a
// copy, so a failing fn leaves the stored session unchanged.
func (s *SessionStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fn func(*quiz.Session) error,
) (*quiz.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.live(id)
	if err != nil {
		return nil, err
	}

	working := e.session.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	s.sessions[id] = sessionEntry{session: working, expiresAt: s.now().Add(s.ttl)}
	return working.Clone(), nil
}

// Delete implements store.SessionStore.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Reap drops expired sessions and returns how many were removed.
func (s *SessionStore) Reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartReaper calls Reap every interval until ctx is cancelled.
func (s *SessionStore) StartReaper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Reap(); n > 0 {
					s.logger.Debug("reaped expired quiz sessions", slog.Int("count", n))
				}
			}
		}
	}()
}

// live returns the entry for id if it exists and has not expired. The
// caller must hold s.mu.
func (s *SessionStore) live(id uuid.UUID) (sessionEntry, error) {
	e, ok := s.sessions[id]
	if !ok {
		return sessionEntry{}, store.ErrSessionNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, id)
		return sessionEntry{}, store.ErrSessionNotFound
	}
	return e, nil
}
