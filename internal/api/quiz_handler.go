package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/kinetic-api/internal/api/shared"
	"github.com/phrazzld/kinetic-api/internal/platform/logger"
	"github.com/phrazzld/kinetic-api/internal/redact"
	"github.com/phrazzld/kinetic-api/internal/service"
)

// QuizHandler drives quiz sessions over HTTP.
type QuizHandler struct {
	quizzes service.QuizService
	logger  *slog.Logger
}

// NewQuizHandler creates a QuizHandler.
func NewQuizHandler(quizzes service.QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}
	return &QuizHandler{
		quizzes: quizzes,
		logger:  logger.With(slog.String("component", "quiz_handler")),
	}
}

// StartSession handles POST /slides/{id}/quiz/sessions.
func (h *QuizHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}

	session, err := h.quizzes.StartSession(r.Context(), learnerID, chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start quiz")
		return
	}

	log.Debug("quiz session started",
		slog.String("learner_id", learnerID.String()),
		slog.String("session_id", session.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToView(session))
}

// GetSession handles GET /quiz/sessions/{id}.
func (h *QuizHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	learnerID, sessionID, ok := handleLearnerAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	session, err := h.quizzes.GetSession(r.Context(), learnerID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load quiz session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToView(session))
}

// SelectOption handles POST /quiz/sessions/{id}/select.
func (h *QuizHandler) SelectOption(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	learnerID, sessionID, ok := handleLearnerAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SelectOptionRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	session, applied, err := h.quizzes.SelectOption(r.Context(), learnerID, sessionID, *req.Option)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to select option")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuizActionResponse{Applied: applied, Session: sessionToView(session)})
}

// Advance handles POST /quiz/sessions/{id}/advance.
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	learnerID, sessionID, ok := handleLearnerAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	session, applied, err := h.quizzes.Advance(r.Context(), learnerID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to advance quiz")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuizActionResponse{Applied: applied, Session: sessionToView(session)})
}

// EndSession handles DELETE /quiz/sessions/{id}. Ending a session that is
// already gone is not an error.
func (h *QuizHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	learnerID, sessionID, ok := handleLearnerAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	err := h.quizzes.EndSession(r.Context(), learnerID, sessionID)
	if err != nil && !errors.Is(err, service.ErrSessionNotFound) {
		HandleAPIError(w, r, err, "Failed to end quiz session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
