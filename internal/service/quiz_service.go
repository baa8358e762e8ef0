package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/domain/quiz"
	"github.com/phrazzld/kinetic-api/internal/platform/logger"
	"github.com/phrazzld/kinetic-api/internal/store"
)

// QuizCompleteInteraction is the interaction key recorded when a learner
// finishes a quiz. Its value is the quiz.Result.
const QuizCompleteInteraction = "quiz-complete"

// QuizService drives quiz sessions for learners.
type QuizService interface {
	// StartSession opens a fresh session on a quiz slide.
	StartSession(ctx context.Context, learnerID uuid.UUID, slideID string) (*quiz.Session, error)

	// GetSession returns the learner's session.
	GetSession(ctx context.Context, learnerID, sessionID uuid.UUID) (*quiz.Session, error)

	// SelectOption answers the current question. The returned bool is false
	// when the session was not awaiting an answer or the option does not
	// exist; the session is then returned unchanged.
	SelectOption(ctx context.Context, learnerID, sessionID uuid.UUID, option int) (*quiz.Session, bool, error)

	// Advance moves past a revealed question. The returned bool is false
	// when there was nothing to advance past.
	Advance(ctx context.Context, learnerID, sessionID uuid.UUID) (*quiz.Session, bool, error)

	// EndSession discards the session.
	EndSession(ctx context.Context, learnerID, sessionID uuid.UUID) error
}

// InteractionRecorder accepts interactions for persistence.
type InteractionRecorder interface {
	Record(ctx context.Context, learnerID uuid.UUID, req RecordInteractionRequest) (*domain.Interaction, error)
}

type quizServiceImpl struct {
	sessions store.SessionStore
	catalog  SlideCatalog
	recorder InteractionRecorder
	now      func() time.Time
	logger   *slog.Logger
}

var _ QuizService = (*quizServiceImpl)(nil)

// NewQuizService creates a QuizService. recorder may be nil, in which case
// completed quizzes are not recorded.
func NewQuizService(
	sessions store.SessionStore,
	catalog SlideCatalog,
	recorder InteractionRecorder,
	logger *slog.Logger,
) (QuizService, error) {
	if sessions == nil || catalog == nil {
		return nil, errors.New("session store and slide catalog are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &quizServiceImpl{
		sessions: sessions,
		catalog:  catalog,
		recorder: recorder,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "quiz_service")),
	}, nil
}

func (s *quizServiceImpl) StartSession(ctx context.Context, learnerID uuid.UUID, slideID string) (*quiz.Session, error) {
	slide, err := slideOfKind(s.catalog, slideID, domain.SlideKindQuiz)
	if err != nil {
		return nil, err
	}

	session := quiz.NewSession(slide.ID, slide.Quiz.Questions, s.now())
	session.LearnerID = learnerID

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, NewServiceError("quiz", "start_session", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("quiz session started",
		slog.String("session_id", session.ID.String()),
		slog.String("slide_id", slide.ID),
		slog.Int("questions", len(session.Questions)))
	return session, nil
}

func (s *quizServiceImpl) GetSession(ctx context.Context, learnerID, sessionID uuid.UUID) (*quiz.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, s.mapStoreError("get_session", err)
	}
	if session.LearnerID != learnerID {
		return nil, ErrNotOwned
	}
	return session, nil
}

func (s *quizServiceImpl) SelectOption(
	ctx context.Context,
	learnerID, sessionID uuid.UUID,
	option int,
) (*quiz.Session, bool, error) {
	return s.mutate(ctx, "select_option", learnerID, sessionID, func(q *quiz.Session) bool {
		return q.SelectOption(option, s.now())
	})
}

func (s *quizServiceImpl) Advance(ctx context.Context, learnerID, sessionID uuid.UUID) (*quiz.Session, bool, error) {
	session, applied, err := s.mutate(ctx, "advance", learnerID, sessionID, func(q *quiz.Session) bool {
		return q.Advance(s.now())
	})
	if err != nil {
		return nil, false, err
	}

	// Advance only applies from revealed, so reaching complete here happens
	// once per session.
	if applied && session.State() == quiz.StateComplete {
		s.recordCompletion(ctx, session)
	}
	return session, applied, nil
}

func (s *quizServiceImpl) EndSession(ctx context.Context, learnerID, sessionID uuid.UUID) error {
	if _, err := s.GetSession(ctx, learnerID, sessionID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return NewServiceError("quiz", "end_session", err)
	}
	return nil
}

// mutate applies op to the stored session under the store's update
// guarantee and reports whether op changed anything.
func (s *quizServiceImpl) mutate(
	ctx context.Context,
	operation string,
	learnerID, sessionID uuid.UUID,
	op func(*quiz.Session) bool,
) (*quiz.Session, bool, error) {
	applied := false
	session, err := s.sessions.Update(ctx, sessionID, func(q *quiz.Session) error {
		if q.LearnerID != learnerID {
			return ErrNotOwned
		}
		applied = op(q)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotOwned) {
			return nil, false, err
		}
		return nil, false, s.mapStoreError(operation, err)
	}
	return session, applied, nil
}

func (s *quizServiceImpl) recordCompletion(ctx context.Context, session *quiz.Session) {
	if s.recorder == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("session_id", session.ID.String()),
		slog.String("slide_id", session.SlideID))

	value, err := json.Marshal(session.Result())
	if err != nil {
		log.Error("failed to encode quiz result", slog.String("error", err.Error()))
		return
	}

	_, err = s.recorder.Record(ctx, session.LearnerID, RecordInteractionRequest{
		SlideID:       session.SlideID,
		InteractionID: QuizCompleteInteraction,
		Value:         value,
		Timestamp:     session.UpdatedAt,
	})
	if err != nil {
		log.Error("failed to record quiz completion", slog.String("error", err.Error()))
		return
	}
	log.Info("quiz completed",
		slog.Int("score", session.Score),
		slog.Int("total", len(session.Questions)))
}

func (s *quizServiceImpl) mapStoreError(operation string, err error) error {
	if errors.Is(err, store.ErrSessionNotFound) {
		return fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	}
	return NewServiceError("quiz", operation, err)
}
