package task

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownTaskType is returned when no factory is registered for a type.
var ErrUnknownTaskType = errors.New("unknown task type")

// Factory builds a task of one type from its ID and payload. The same
// factory serves new tasks and tasks recovered from the store.
type Factory func(id uuid.UUID, payload []byte) (Task, error)

// Registry maps task types to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register installs the factory for taskType, replacing any earlier one.
func (r *Registry) Register(taskType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[taskType] = factory
}

// Has reports whether taskType has a factory.
func (r *Registry) Has(taskType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[taskType]
	return ok
}

// New builds a task with the given type, ID and payload.
func (r *Registry) New(taskType string, id uuid.UUID, payload []byte) (Task, error) {
	r.mu.RLock()
	factory, ok := r.factories[taskType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaskType, taskType)
	}
	return factory(id, payload)
}

// Rehydrate rebuilds a stored task.
func (r *Registry) Rehydrate(rec Record) (Task, error) {
	return r.New(rec.Type, rec.ID, rec.Payload)
}
