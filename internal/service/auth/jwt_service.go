// Package auth validates the learner tokens that the host page passes to
// the API, and can issue them for development and tests.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and validates learner tokens.
type JWTService interface {
	// GenerateToken creates a signed token for the learner.
	GenerateToken(ctx context.Context, learnerID uuid.UUID) (string, error)

	// ValidateToken checks signature and lifetime and returns the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrMissingLearner or
	// ErrInvalidToken when the token cannot be used.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the parts of a learner token the API uses.
type Claims struct {
	// LearnerID is carried in the "uid" claim.
	LearnerID uuid.UUID `json:"uid,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
