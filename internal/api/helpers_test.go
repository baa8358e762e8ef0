package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/animation"
	"github.com/phrazzld/kinetic-api/internal/api/shared"
	"github.com/phrazzld/kinetic-api/internal/deck"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/events"
	"github.com/phrazzld/kinetic-api/internal/platform/memory"
	"github.com/phrazzld/kinetic-api/internal/service"
	"github.com/phrazzld/kinetic-api/internal/store"
	"github.com/stretchr/testify/require"
)

const apiTestDeck = `
title: API Deck
modules:
  - id: laws
    title: Newton's Laws
    slides:
      - id: first-law
        title: First Law
        kind: content
        body: Objects keep doing what they are doing.
      - id: laws-quiz
        title: Check
        kind: quiz
        quiz:
          questions:
            - id: q1
              prompt: What does F = ma describe?
              options: [inertia, force, energy]
              correct_answer_index: 1
              explanation: Newton's second law.
  - id: momentum
    title: Momentum
    slides:
      - id: push
        title: Push
        kind: formula
        formula:
          formula: force
          visual:
            track_length: 200
            max_result: 1000
          animation:
            - name: push
              duration: 500ms
              fraction: 1
      - id: reflect
        title: Reflect
        kind: assessment
        assessment:
          - id: why
            question_text: Why does the cart stop?
            input_type: text
            required: true
`

// memInteractions is an in-memory interaction store.
type memInteractions struct {
	mu   sync.Mutex
	list []*domain.Interaction
}

func (m *memInteractions) Create(_ context.Context, i *domain.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, i)
	return nil
}

func (m *memInteractions) GetByID(_ context.Context, id uuid.UUID) (*domain.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range m.list {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, store.ErrInteractionNotFound
}

func (m *memInteractions) ListByLearner(_ context.Context, learnerID uuid.UUID, _ int) ([]*domain.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Interaction
	for _, i := range m.list {
		if i.LearnerID == learnerID {
			out = append(out, i)
		}
	}
	return out, nil
}

// storingHandler writes every interaction event straight to the store.
type storingHandler struct {
	store *memInteractions
}

func (h storingHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	var i domain.Interaction
	if err := event.UnmarshalPayload(&i); err != nil {
		return err
	}
	return h.store.Create(ctx, &i)
}

type testServer struct {
	router       http.Handler
	interactions *memInteractions
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalog, err := deck.Load(strings.NewReader(apiTestDeck))
	require.NoError(t, err)

	interactions := &memInteractions{}
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(storingHandler{store: interactions})

	interactionSvc, err := service.NewInteractionService(interactions, catalog, emitter, log)
	require.NoError(t, err)
	quizSvc, err := service.NewQuizService(memory.NewSessionStore(time.Minute, log), catalog, interactionSvc, log)
	require.NoError(t, err)
	formulaSvc, err := service.NewFormulaService(catalog, animation.DefaultSpring())
	require.NoError(t, err)

	slides := NewSlideHandler(catalog, service.NewAssessmentService(catalog), domain.ThemeDark, log)
	quizzes := NewQuizHandler(quizSvc, log)
	formulas := NewFormulaHandler(formulaSvc, log)
	recorded := NewInteractionHandler(interactionSvc, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := shared.SetTraceID(req.Context())
			if raw := req.Header.Get("X-Learner"); raw != "" {
				ctx = shared.WithLearnerID(ctx, uuid.MustParse(raw))
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/slides", slides.ListSlides)
	r.Get("/slides/{id}", slides.GetSlide)
	r.Get("/slides/{id}/assessment", slides.GetAssessment)
	r.Post("/slides/{id}/formula", formulas.Evaluate)
	r.Post("/slides/{id}/quiz/sessions", quizzes.StartSession)
	r.Get("/quiz/sessions/{id}", quizzes.GetSession)
	r.Post("/quiz/sessions/{id}/select", quizzes.SelectOption)
	r.Post("/quiz/sessions/{id}/advance", quizzes.Advance)
	r.Delete("/quiz/sessions/{id}", quizzes.EndSession)
	r.Post("/interactions", recorded.RecordInteraction)
	r.Get("/interactions", recorded.ListInteractions)

	return &testServer{router: r, interactions: interactions}
}

// do sends a request as learner (uuid.Nil means anonymous) and returns the recorder.
func (s *testServer) do(t *testing.T, learner uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if learner != uuid.Nil {
		req.Header.Set("X-Learner", learner.String())
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
