package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/events"
)

// Submitter accepts tasks for background execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// TaskFactoryEventHandler turns task request events into tasks using the
// registry and hands them to the submitter. Events of a type the registry
// does not know are ignored.
type TaskFactoryEventHandler struct {
	registry  *Registry
	submitter Submitter
	logger    *slog.Logger
}

var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)

// NewTaskFactoryEventHandler creates a handler that builds tasks through
// registry and submits them to submitter.
func NewTaskFactoryEventHandler(
	registry *Registry,
	submitter Submitter,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskFactoryEventHandler{
		registry:  registry,
		submitter: submitter,
		logger:    logger.With(slog.String("component", "task_factory_event_handler")),
	}
}

// HandleEvent implements events.EventHandler.
func (h *TaskFactoryEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	log := h.logger.With(
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
	)

	if !h.registry.Has(event.Type) {
		log.DebugContext(ctx, "ignoring event with unsupported type")
		return nil
	}

	task, err := h.registry.New(event.Type, uuid.New(), event.Payload)
	if err != nil {
		log.ErrorContext(ctx, "failed to create task", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create task: %w", err)
	}

	log = log.With(slog.String("task_id", task.ID().String()))
	if err := h.submitter.Submit(ctx, task); err != nil {
		log.ErrorContext(ctx, "failed to submit task", slog.String("error", err.Error()))
		return fmt.Errorf("failed to submit task: %w", err)
	}

	log.DebugContext(ctx, "task created and submitted")
	return nil
}
