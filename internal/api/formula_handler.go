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

// FormulaHandler evaluates formula display slides.
type FormulaHandler struct {
	formulas service.FormulaService
	logger   *slog.Logger
}

// NewFormulaHandler creates a FormulaHandler.
func NewFormulaHandler(formulas service.FormulaService, logger *slog.Logger) *FormulaHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FormulaHandler")
	}
	return &FormulaHandler{
		formulas: formulas,
		logger:   logger.With(slog.String("component", "formula_handler")),
	}
}

// Evaluate handles POST /slides/{id}/formula.
func (h *FormulaHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	slideID := chi.URLParam(r, "id")

	var req FormulaRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := h.formulas.Evaluate(r.Context(), slideID, req.Inputs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to evaluate formula")
		return
	}

	log.Debug("formula evaluated",
		slog.String("slide_id", slideID),
		slog.Float64("result", result.Reading.Result),
		slog.Float64("offset", result.Offset))
	shared.RespondWithJSON(w, r, http.StatusOK, formulaResultToResponse(result))
}
