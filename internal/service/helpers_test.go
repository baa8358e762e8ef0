package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/deck"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/events"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testDeckYAML = `
title: Test Deck
modules:
  - id: mechanics
    title: Mechanics
    slides:
      - id: intro
        title: Intro
        kind: content
        body: Forces change motion.
      - id: quiz
        title: Quiz
        submodule_id: laws
        kind: quiz
        quiz:
          questions:
            - id: q1
              prompt: First?
              options: [a, b, c]
              correct_answer_index: 0
            - id: q2
              prompt: Second?
              options: [a, b]
              correct_answer_index: 1
      - id: push
        title: Push
        kind: formula
        formula:
          formula: force
          inputs:
            mass: 10
          visual:
            track_length: 300
            max_result: 2000
          animation:
            - name: push
              duration: 800ms
              fraction: 0.5
            - name: coast
              duration: 400ms
              fraction: 1
      - id: bare
        title: Bare
        kind: formula
        formula:
          formula: momentum
          visual:
            track_length: 100
            max_result: 5000
      - id: report
        title: Report
        kind: assessment
        assessment:
          - id: hypothesis
            question_text: Why?
            input_type: textarea
            required: true
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog(t *testing.T) *deck.Registry {
	t.Helper()
	reg, err := deck.Load(strings.NewReader(testDeckYAML))
	require.NoError(t, err)
	return reg
}

// captureEmitter records emitted events.
type captureEmitter struct {
	mu     sync.Mutex
	events []*events.TaskRequestEvent
	err    error
}

func (e *captureEmitter) EmitEvent(_ context.Context, event *events.TaskRequestEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

// mockRecorder is a testify mock of InteractionRecorder.
type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(
	ctx context.Context,
	learnerID uuid.UUID,
	req RecordInteractionRequest,
) (*domain.Interaction, error) {
	args := m.Called(ctx, learnerID, req)
	interaction, _ := args.Get(0).(*domain.Interaction)
	return interaction, args.Error(1)
}

// mockInteractionStore is a testify mock of store.InteractionStore.
type mockInteractionStore struct {
	mock.Mock
}

func (m *mockInteractionStore) Create(ctx context.Context, i *domain.Interaction) error {
	return m.Called(ctx, i).Error(0)
}

func (m *mockInteractionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Interaction, error) {
	args := m.Called(ctx, id)
	i, _ := args.Get(0).(*domain.Interaction)
	return i, args.Error(1)
}

func (m *mockInteractionStore) ListByLearner(
	ctx context.Context,
	learnerID uuid.UUID,
	limit int,
) ([]*domain.Interaction, error) {
	args := m.Called(ctx, learnerID, limit)
	list, _ := args.Get(0).([]*domain.Interaction)
	return list, args.Error(1)
}
