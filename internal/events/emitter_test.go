package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHandler struct {
	events []*TaskRequestEvent
	err    error
}

func (h *countingHandler) HandleEvent(_ context.Context, event *TaskRequestEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newEvent := func(t *testing.T) *TaskRequestEvent {
		event, err := NewTaskRequestEvent(TypeInteractionRecording, map[string]string{"slide_id": "s"})
		require.NoError(t, err)
		return event
	}

	t.Run("no handlers", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)
		assert.NoError(t, emitter.EmitEvent(context.Background(), newEvent(t)))
	})

	t.Run("all handlers receive the event", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)
		h1, h2 := &countingHandler{}, &countingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event := newEvent(t)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, []*TaskRequestEvent{event}, h1.events)
		assert.Equal(t, []*TaskRequestEvent{event}, h2.events)
	})

	t.Run("first error returned and later handlers still run", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(nil)
		first := errors.New("first")
		failing1 := &countingHandler{err: first}
		failing2 := &countingHandler{err: errors.New("second")}
		ok := &countingHandler{}
		emitter.RegisterHandler(failing1)
		emitter.RegisterHandler(failing2)
		emitter.RegisterHandler(ok)

		err := emitter.EmitEvent(context.Background(), newEvent(t))
		assert.ErrorIs(t, err, first)
		assert.Len(t, ok.events, 1)
		assert.Len(t, failing2.events, 1)
	})
}
