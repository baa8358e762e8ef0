package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/kinetic-api/internal/api/shared"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/platform/logger"
	"github.com/phrazzld/kinetic-api/internal/service"
)

// SlideHandler serves the deck's slides and their static assessment lists.
type SlideHandler struct {
	catalog     service.SlideCatalog
	assessments service.AssessmentService
	theme       domain.Theme
	logger      *slog.Logger
}

// NewSlideHandler creates a SlideHandler. Every slide view carries theme.
func NewSlideHandler(
	catalog service.SlideCatalog,
	assessments service.AssessmentService,
	theme domain.Theme,
	logger *slog.Logger,
) *SlideHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SlideHandler")
	}
	return &SlideHandler{
		catalog:     catalog,
		assessments: assessments,
		theme:       theme,
		logger:      logger.With(slog.String("component", "slide_handler")),
	}
}

// ListSlides handles GET /slides. ?module= restricts the list to one module.
func (h *SlideHandler) ListSlides(w http.ResponseWriter, r *http.Request) {
	moduleID := r.URL.Query().Get("module")

	resp := SlideListResponse{
		Title:   h.catalog.Title(),
		Theme:   h.theme,
		Modules: h.catalog.Modules(),
		Slides:  []SlideSummary{},
	}
	for _, s := range h.catalog.Slides(moduleID) {
		resp.Slides = append(resp.Slides, slideToSummary(s))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetSlide handles GET /slides/{id}.
func (h *SlideHandler) GetSlide(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	slideID := chi.URLParam(r, "id")

	slide, err := h.catalog.Slide(slideID)
	if err != nil {
		log.Debug("slide lookup failed", slog.String("slide_id", slideID))
		HandleAPIError(w, r, service.ErrSlideNotFound, "")
		return
	}

	view, err := slideToView(slide, h.theme)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load slide")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// GetAssessment handles GET /slides/{id}/assessment.
func (h *SlideHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	slideID := chi.URLParam(r, "id")

	questions, err := h.assessments.Questions(r.Context(), slideID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load assessment")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AssessmentResponse{SlideID: slideID, Questions: questions})
}
