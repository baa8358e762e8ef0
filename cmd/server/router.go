package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/kinetic-api/internal/api"
	apiMiddleware "github.com/phrazzld/kinetic-api/internal/api/middleware"
)

// setupRouter registers every route and its middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	slides := api.NewSlideHandler(app.catalog, app.assessmentService, app.theme, app.logger)
	quizzes := api.NewQuizHandler(app.quizService, app.logger)
	formulas := api.NewFormulaHandler(app.formulaService, app.logger)
	interactions := api.NewInteractionHandler(app.interactionService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/slides", slides.ListSlides)
		r.Get("/slides/{id}", slides.GetSlide)
		r.Get("/slides/{id}/assessment", slides.GetAssessment)
		r.Post("/slides/{id}/formula", formulas.Evaluate)
		r.Post("/slides/{id}/quiz/sessions", quizzes.StartSession)

		r.Get("/quiz/sessions/{id}", quizzes.GetSession)
		r.Post("/quiz/sessions/{id}/select", quizzes.SelectOption)
		r.Post("/quiz/sessions/{id}/advance", quizzes.Advance)
		r.Delete("/quiz/sessions/{id}", quizzes.EndSession)

		r.Post("/interactions", interactions.RecordInteraction)
		r.Get("/interactions", interactions.ListInteractions)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
