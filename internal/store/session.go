package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain/quiz"
)

// SessionStore holds live quiz sessions. Sessions are short-lived and
// expire after the store's TTL without further activity.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, session *quiz.Session) error

	// Get returns a copy of the session.
	// Returns ErrSessionNotFound if it does not exist or has expired.
	Get(ctx context.Context, id uuid.UUID) (*quiz.Session, error)

	// Update loads the session, applies fn and saves the result atomically
	// with respect to other updates of the same session. If fn returns an
	// error nothing is saved and the error is returned.
	Update(ctx context.Context, id uuid.UUID, fn func(*quiz.Session) error) (*quiz.Session, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute
