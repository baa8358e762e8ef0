package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event types understood by the task layer.
const (
	// TypeInteractionRecording asks for a learner interaction to be persisted.
	// The payload is the JSON encoding of a domain.Interaction.
	TypeInteractionRecording = "interaction_recording"
)

// ErrEmptyEventType is returned when an event is created without a type.
var ErrEmptyEventType = errors.New("event type cannot be empty")

// TaskRequestEvent represents a request to create a background task.
type TaskRequestEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates the task type that should be created
	Type string `json:"type"`

	// Payload contains the task-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *TaskRequestEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewTaskRequestEvent creates an event of the given type, encoding payload
// as JSON.
func NewTaskRequestEvent(eventType string, payload any) (*TaskRequestEvent, error) {
	if eventType == "" {
		return nil, ErrEmptyEventType
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &TaskRequestEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler is implemented by components that act on events.
type EventHandler interface {
	// HandleEvent processes the given event. Returns an error if the event
	// cannot be handled.
	HandleEvent(ctx context.Context, event *TaskRequestEvent) error
}

// HandlerFunc adapts a plain function to EventHandler.
type HandlerFunc func(ctx context.Context, event *TaskRequestEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskRequestEvent) error {
	return f(ctx, event)
}

// EventEmitter is implemented by components that publish events.
type EventEmitter interface {
	// EmitEvent publishes the event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskRequestEvent) error
}
