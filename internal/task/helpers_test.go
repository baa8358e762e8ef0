package task

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memTaskStore is an in-memory TaskStore.
type memTaskStore struct {
	mu        sync.Mutex
	records   map[uuid.UUID]*Record
	history   map[uuid.UUID][]TaskStatus
	saveErr   error
	updateErr error
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{
		records: make(map[uuid.UUID]*Record),
		history: make(map[uuid.UUID][]TaskStatus),
	}
}

func (s *memTaskStore) SaveTask(_ context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	now := time.Now()
	s.records[task.ID()] = &Record{
		ID: task.ID(), Type: task.Type(), Payload: task.Payload(),
		Status: task.Status(), CreatedAt: now, UpdatedAt: now,
	}
	s.history[task.ID()] = append(s.history[task.ID()], task.Status())
	return nil
}

func (s *memTaskStore) put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := rec
	s.records[rec.ID] = &r
}

func (s *memTaskStore) UpdateTaskStatus(_ context.Context, id uuid.UUID, status TaskStatus, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	rec.Status = status
	rec.ErrorMessage = msg
	rec.UpdatedAt = time.Now()
	s.history[id] = append(s.history[id], status)
	return nil
}

func (s *memTaskStore) byStatus(status TaskStatus, olderThan time.Duration) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if rec.Status != status {
			continue
		}
		if olderThan > 0 && time.Since(rec.UpdatedAt) < olderThan {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

func (s *memTaskStore) GetPendingTasks(context.Context) ([]Record, error) {
	return s.byStatus(TaskStatusPending, 0), nil
}

func (s *memTaskStore) GetProcessingTasks(_ context.Context, olderThan time.Duration) ([]Record, error) {
	return s.byStatus(TaskStatusProcessing, olderThan), nil
}

func (s *memTaskStore) status(id uuid.UUID) (TaskStatus, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return "", ""
	}
	return rec.Status, rec.ErrorMessage
}

// memInteractionStore is an in-memory store.InteractionStore.
type memInteractionStore struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*domain.Interaction
	writes int
	err    error
}

func newMemInteractionStore() *memInteractionStore {
	return &memInteractionStore{byID: make(map[uuid.UUID]*domain.Interaction)}
}

func (s *memInteractionStore) Create(_ context.Context, i *domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.err != nil {
		return s.err
	}
	if _, ok := s.byID[i.ID]; !ok {
		s.byID[i.ID] = i
	}
	return nil
}

func (s *memInteractionStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return nil, store.ErrInteractionNotFound
	}
	return i, nil
}

func (s *memInteractionStore) ListByLearner(context.Context, uuid.UUID, int) ([]*domain.Interaction, error) {
	return nil, errors.New("not implemented")
}

func (s *memInteractionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// funcTask is a Task whose Execute calls fn.
type funcTask struct {
	id      uuid.UUID
	payload []byte
	fn      func(ctx context.Context) error
}

func (t *funcTask) ID() uuid.UUID      { return t.id }
func (t *funcTask) Type() string       { return "func" }
func (t *funcTask) Payload() []byte    { return t.payload }
func (t *funcTask) Status() TaskStatus { return TaskStatusPending }
func (t *funcTask) Execute(ctx context.Context) error {
	if t.fn == nil {
		return nil
	}
	return t.fn(ctx)
}

func newFuncTask(fn func(ctx context.Context) error) *funcTask {
	return &funcTask{id: uuid.New(), payload: []byte(`{}`), fn: fn}
}

func sampleInteraction() *domain.Interaction {
	return &domain.Interaction{
		ID:            uuid.New(),
		LearnerID:     uuid.New(),
		SlideID:       "momentum-quiz",
		ModuleID:      "momentum",
		InteractionID: "quiz-complete",
		Value:         json.RawMessage(`{"score":2,"total":3}`),
		Timestamp:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2026, 3, 1, 10, 0, 1, 0, time.UTC),
	}
}
