package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/kinetic-api/internal/api/shared"
	"github.com/phrazzld/kinetic-api/internal/platform/logger"
	"github.com/phrazzld/kinetic-api/internal/redact"
	"github.com/phrazzld/kinetic-api/internal/service"
)

// InteractionHandler accepts learner interactions and lists them back.
type InteractionHandler struct {
	interactions service.InteractionService
	logger       *slog.Logger
}

// NewInteractionHandler creates an InteractionHandler.
func NewInteractionHandler(interactions service.InteractionService, logger *slog.Logger) *InteractionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for InteractionHandler")
	}
	return &InteractionHandler{
		interactions: interactions,
		logger:       logger.With(slog.String("component", "interaction_handler")),
	}
}

// RecordInteraction handles POST /interactions. The write happens in the
// background, so success is 202 Accepted.
func (h *InteractionHandler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}

	var req RecordInteractionRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	in := service.RecordInteractionRequest{
		SlideID:       req.SlideID,
		InteractionID: req.InteractionID,
		Value:         req.Value,
	}
	if req.Timestamp != nil {
		in.Timestamp = *req.Timestamp
	}

	interaction, err := h.interactions.Record(r.Context(), learnerID, in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record interaction")
		return
	}

	log.Debug("interaction accepted",
		slog.String("learner_id", learnerID.String()),
		slog.String("interaction_id", interaction.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusAccepted, interactionToResponse(interaction))
}

// ListInteractions handles GET /interactions.
func (h *InteractionHandler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	list, err := h.interactions.ListForLearner(r.Context(), learnerID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list interactions")
		return
	}

	resp := InteractionListResponse{Interactions: make([]InteractionResponse, len(list))}
	for i, interaction := range list {
		resp.Interactions[i] = interactionToResponse(interaction)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
