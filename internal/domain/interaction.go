package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Interaction-specific validation errors
var (
	// ErrInteractionLearnerIDEmpty is returned when an interaction has no learner.
	ErrInteractionLearnerIDEmpty = errors.New("interaction learner ID cannot be empty")

	// ErrInteractionSlideIDEmpty is returned when an interaction is not tied to a slide.
	ErrInteractionSlideIDEmpty = errors.New("interaction slide ID cannot be empty")

	// ErrInteractionKeyEmpty is returned when the interaction identifier is missing.
	ErrInteractionKeyEmpty = errors.New("interaction identifier cannot be empty")

	// ErrInteractionValueInvalid is returned when the value is not valid JSON.
	ErrInteractionValueInvalid = errors.New("interaction value must be valid JSON")

	// ErrInteractionTimestampEmpty is returned when the interaction has no timestamp.
	ErrInteractionTimestampEmpty = errors.New("interaction timestamp cannot be empty")
)

// Interaction is a recorded unit of learner engagement with a slide, such
// as finishing a quiz or running a demo. The value is opaque to this
// service and stored as JSON.
type Interaction struct {
	ID            uuid.UUID       `json:"id"`
	LearnerID     uuid.UUID       `json:"learner_id"`
	SlideID       string          `json:"slide_id"`
	ModuleID      string          `json:"module_id"`
	SubmoduleID   string          `json:"submodule_id"`
	InteractionID string          `json:"interaction_id"`
	Value         json.RawMessage `json:"value"`
	Timestamp     time.Time       `json:"timestamp"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewInteraction creates an Interaction for the given slide. The slide's
// static identifiers are copied onto the record so the sink does not need
// to look the slide up again.
func NewInteraction(
	learnerID uuid.UUID,
	slide *Slide,
	interactionID string,
	value json.RawMessage,
	timestamp time.Time,
) (*Interaction, error) {
	if slide == nil {
		return nil, ErrInteractionSlideIDEmpty
	}

	if len(value) == 0 {
		value = json.RawMessage("null")
	}

	interaction := &Interaction{
		ID:            uuid.New(),
		LearnerID:     learnerID,
		SlideID:       slide.ID,
		ModuleID:      slide.ModuleID,
		SubmoduleID:   slide.SubmoduleID,
		InteractionID: interactionID,
		Value:         value,
		Timestamp:     timestamp.UTC(),
		CreatedAt:     time.Now().UTC(),
	}

	if err := interaction.Validate(); err != nil {
		return nil, err
	}

	return interaction, nil
}

// Validate checks if the Interaction has valid data.
func (i *Interaction) Validate() error {
	if i.ID == uuid.Nil {
		return ErrInvalidID
	}

	if i.LearnerID == uuid.Nil {
		return ErrInteractionLearnerIDEmpty
	}

	if i.SlideID == "" {
		return ErrInteractionSlideIDEmpty
	}

	if i.InteractionID == "" {
		return ErrInteractionKeyEmpty
	}

	if i.Timestamp.IsZero() {
		return ErrInteractionTimestampEmpty
	}

	if !json.Valid(i.Value) {
		return ErrInteractionValueInvalid
	}

	return nil
}
