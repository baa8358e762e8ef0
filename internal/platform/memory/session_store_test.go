package memory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/domain/quiz"
	"github.com/phrazzld/kinetic-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore(ttl time.Duration) (*SessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	s := NewSessionStore(ttl, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = clock.Now
	return s, clock
}

func newQuizSession() *quiz.Session {
	return quiz.NewSession("quiz", []domain.Question{
		{ID: "q1", Prompt: "p", Options: []string{"a", "b"}, CorrectAnswerIndex: 1},
		{ID: "q2", Prompt: "p", Options: []string{"a", "b"}, CorrectAnswerIndex: 0},
	}, time.Now())
}

func TestSessionStoreCreateGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(time.Minute)

	sess := newQuizSession()
	require.NoError(t, s.Create(ctx, sess))
	assert.ErrorIs(t, s.Create(ctx, sess), store.ErrDuplicate)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	got.Score = 42
	again, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Score, "Get must return a copy")

	_, err = s.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.ErrorIs(t, s.Create(ctx, nil), store.ErrInvalidEntity)
}

func TestSessionStoreUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(time.Minute)

	sess := newQuizSession()
	require.NoError(t, s.Create(ctx, sess))

	updated, err := s.Update(ctx, sess.ID, func(q *quiz.Session) error {
		q.SelectOption(1, time.Now())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Score)
	assert.Equal(t, quiz.StateRevealed, updated.State())

	boom := errors.New("boom")
	_, err = s.Update(ctx, sess.ID, func(q *quiz.Session) error {
		q.Advance(time.Now())
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.StateRevealed, got.State(), "failed update must not be saved")

	_, err = s.Update(ctx, uuid.New(), func(*quiz.Session) error { return nil })
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionStoreConcurrentUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(time.Minute)

	sess := newQuizSession()
	require.NoError(t, s.Create(ctx, sess))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, sess.ID, func(q *quiz.Session) error {
				q.SelectOption(1, time.Now())
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Score)
	assert.Len(t, got.Answers, 1)
}

func TestSessionStoreExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, clock := newTestStore(time.Minute)

	kept := newQuizSession()
	dropped := newQuizSession()
	require.NoError(t, s.Create(ctx, kept))
	require.NoError(t, s.Create(ctx, dropped))

	clock.Advance(45 * time.Second)
	_, err := s.Get(ctx, kept.ID)
	require.NoError(t, err, "access refreshes the expiry")

	clock.Advance(30 * time.Second)
	_, err = s.Get(ctx, dropped.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	clock.Advance(29 * time.Second)
	assert.Equal(t, 0, s.Reap())
	clock.Advance(time.Second)
	assert.Equal(t, 1, s.Reap())
}

func TestSessionStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(0)
	assert.Equal(t, store.DefaultSessionTTL, s.ttl)

	sess := newQuizSession()
	require.NoError(t, s.Create(ctx, sess))
	require.NoError(t, s.Delete(ctx, sess.ID))
	require.NoError(t, s.Delete(ctx, sess.ID))

	_, err := s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
