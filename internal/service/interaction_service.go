package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/events"
	"github.com/phrazzld/kinetic-api/internal/platform/logger"
	"github.com/phrazzld/kinetic-api/internal/store"
)

// RecordInteractionRequest is what a slide hands over when the learner
// does something worth keeping.
type RecordInteractionRequest struct {
	SlideID       string
	InteractionID string
	Value         json.RawMessage
	// Timestamp is when the interaction happened. Zero means now.
	Timestamp time.Time
}

// InteractionService records and reads back learner interactions.
type InteractionService interface {
	InteractionRecorder

	// ListForLearner returns the learner's most recent interactions.
	ListForLearner(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.Interaction, error)
}

type interactionServiceImpl struct {
	interactions store.InteractionStore
	catalog      SlideCatalog
	emitter      events.EventEmitter
	now          func() time.Time
	logger       *slog.Logger
}

var _ InteractionService = (*interactionServiceImpl)(nil)

// NewInteractionService creates an InteractionService. Recorded
// interactions are emitted as events and written by a background task.
func NewInteractionService(
	interactions store.InteractionStore,
	catalog SlideCatalog,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (InteractionService, error) {
	if interactions == nil || catalog == nil || emitter == nil {
		return nil, errors.New("interaction store, slide catalog and event emitter are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &interactionServiceImpl{
		interactions: interactions,
		catalog:      catalog,
		emitter:      emitter,
		now:          time.Now,
		logger:       logger.With(slog.String("component", "interaction_service")),
	}, nil
}

// Record validates the interaction and emits it for persistence. The
// returned interaction carries the ID it will be stored under.
func (s *interactionServiceImpl) Record(
	ctx context.Context,
	learnerID uuid.UUID,
	req RecordInteractionRequest,
) (*domain.Interaction, error) {
	slide, err := lookupSlide(s.catalog, req.SlideID)
	if err != nil {
		return nil, err
	}

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now()
	}

	interaction, err := domain.NewInteraction(learnerID, slide, req.InteractionID, req.Value, timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInteraction, err)
	}

	event, err := events.NewTaskRequestEvent(events.TypeInteractionRecording, interaction)
	if err != nil {
		return nil, NewServiceError("interaction", "record", err)
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to emit interaction event",
			slog.String("error", err.Error()),
			slog.String("interaction_id", interaction.ID.String()))
		return nil, NewServiceError("interaction", "record", err)
	}

	return interaction, nil
}

func (s *interactionServiceImpl) ListForLearner(
	ctx context.Context,
	learnerID uuid.UUID,
	limit int,
) ([]*domain.Interaction, error) {
	list, err := s.interactions.ListByLearner(ctx, learnerID, limit)
	if err != nil {
		return nil, NewServiceError("interaction", "list", err)
	}
	return list, nil
}
