package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain"
)

// InteractionStore persists learner interactions handed over by slides.
type InteractionStore interface {
	// Create saves a new interaction. Saving an interaction whose ID is
	// already stored is a no-op, so redelivered writes are harmless.
	// Returns ErrInvalidEntity if the interaction fails validation.
	Create(ctx context.Context, interaction *domain.Interaction) error

	// GetByID retrieves an interaction by its unique ID.
	// Returns ErrInteractionNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Interaction, error)

	// ListByLearner returns a learner's most recent interactions, newest first.
	ListByLearner(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.Interaction, error)
}
