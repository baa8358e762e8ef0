package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/store"
)

// Common errors
var (
	ErrNilInteractionStore = errors.New("interaction store cannot be nil")
	ErrNilInteraction      = errors.New("interaction cannot be nil")
	ErrInvalidPayload      = errors.New("invalid task payload")
)

// InteractionRecordingTask writes one learner interaction to the
// interaction store. Running it twice stores the interaction once.
type InteractionRecordingTask struct {
	id          uuid.UUID
	interaction *domain.Interaction
	store       store.InteractionStore
	logger      *slog.Logger
	status      TaskStatus
}

// NewInteractionRecordingTask creates a pending task for interaction.
func NewInteractionRecordingTask(
	id uuid.UUID,
	interaction *domain.Interaction,
	interactionStore store.InteractionStore,
	logger *slog.Logger,
) (*InteractionRecordingTask, error) {
	if interactionStore == nil {
		return nil, ErrNilInteractionStore
	}
	if interaction == nil {
		return nil, ErrNilInteraction
	}
	if err := interaction.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &InteractionRecordingTask{
		id:          id,
		interaction: interaction,
		store:       interactionStore,
		logger: logger.With(
			slog.String("task_type", TaskTypeInteractionRecording),
			slog.String("interaction_id", interaction.ID.String()),
		),
		status: TaskStatusPending,
	}, nil
}

// InteractionRecordingFactory returns the Factory for interaction
// recording tasks. The payload is the JSON form of a domain.Interaction.
func InteractionRecordingFactory(interactionStore store.InteractionStore, logger *slog.Logger) Factory {
	return func(id uuid.UUID, payload []byte) (Task, error) {
		var interaction domain.Interaction
		if err := json.Unmarshal(payload, &interaction); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return NewInteractionRecordingTask(id, &interaction, interactionStore, logger)
	}
}

// ID returns the task's unique identifier
func (t *InteractionRecordingTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *InteractionRecordingTask) Type() string {
	return TaskTypeInteractionRecording
}

// Payload returns the interaction encoded as JSON.
func (t *InteractionRecordingTask) Payload() []byte {
	payload, err := json.Marshal(t.interaction)
	if err != nil {
		t.logger.Error("failed to encode interaction payload", slog.String("error", err.Error()))
		return nil
	}
	return payload
}

// Status returns the current task status
func (t *InteractionRecordingTask) Status() TaskStatus {
	return t.status
}

// Interaction returns the interaction the task records.
func (t *InteractionRecordingTask) Interaction() *domain.Interaction {
	return t.interaction
}

// Execute saves the interaction.
func (t *InteractionRecordingTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	if err := t.store.Create(ctx, t.interaction); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to store interaction: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.DebugContext(ctx, "interaction recorded",
		slog.String("slide_id", t.interaction.SlideID),
		slog.String("key", t.interaction.InteractionID))
	return nil
}
