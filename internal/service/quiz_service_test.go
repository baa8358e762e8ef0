package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/domain/quiz"
	"github.com/phrazzld/kinetic-api/internal/platform/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newQuizService(t *testing.T, recorder InteractionRecorder) QuizService {
	t.Helper()
	svc, err := NewQuizService(
		memory.NewSessionStore(time.Minute, discardLogger()),
		testCatalog(t),
		recorder,
		discardLogger(),
	)
	require.NoError(t, err)
	return svc
}

func TestNewQuizServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewQuizService(nil, testCatalog(t), nil, nil)
	assert.Error(t, err)
}

func TestQuizServiceStartSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newQuizService(t, nil)
	learner := uuid.New()

	session, err := svc.StartSession(ctx, learner, "quiz")
	require.NoError(t, err)
	assert.Equal(t, learner, session.LearnerID)
	assert.Equal(t, "quiz", session.SlideID)
	assert.Len(t, session.Questions, 2)
	assert.Equal(t, quiz.StateAnswering, session.State())

	_, err = svc.StartSession(ctx, learner, "missing")
	assert.ErrorIs(t, err, ErrSlideNotFound)

	_, err = svc.StartSession(ctx, learner, "push")
	assert.ErrorIs(t, err, ErrWrongSlideKind)

	other, err := svc.StartSession(ctx, learner, "quiz")
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, other.ID, "every start is a fresh session")
}

func TestQuizServiceFullRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	learner := uuid.New()

	recorder := &mockRecorder{}
	recorder.On("Record", mock.Anything, learner, mock.MatchedBy(func(req RecordInteractionRequest) bool {
		var result quiz.Result
		if err := json.Unmarshal(req.Value, &result); err != nil {
			return false
		}
		return req.SlideID == "quiz" &&
			req.InteractionID == QuizCompleteInteraction &&
			result == quiz.Result{Score: 1, Total: 2, Complete: true}
	})).Return(&domain.Interaction{}, nil).Once()

	svc := newQuizService(t, recorder)
	session, err := svc.StartSession(ctx, learner, "quiz")
	require.NoError(t, err)

	_, applied, err := svc.Advance(ctx, learner, session.ID)
	require.NoError(t, err)
	assert.False(t, applied, "advance before answering is ignored")

	s, applied, err := svc.SelectOption(ctx, learner, session.ID, 0)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 1, s.Score)
	assert.Equal(t, quiz.StateRevealed, s.State())

	s, applied, err = svc.SelectOption(ctx, learner, session.ID, 1)
	require.NoError(t, err)
	assert.False(t, applied, "a revealed question cannot be re-answered")
	assert.Equal(t, 0, *s.SelectedOption)

	s, applied, err = svc.Advance(ctx, learner, session.ID)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 1, s.CurrentIndex)
	assert.Nil(t, s.SelectedOption)

	_, applied, err = svc.SelectOption(ctx, learner, session.ID, 5)
	require.NoError(t, err)
	assert.False(t, applied, "unknown option is ignored")

	_, _, err = svc.SelectOption(ctx, learner, session.ID, 0)
	require.NoError(t, err)
	s, applied, err = svc.Advance(ctx, learner, session.ID)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, quiz.StateComplete, s.State())

	_, applied, err = svc.Advance(ctx, learner, session.ID)
	require.NoError(t, err)
	assert.False(t, applied)

	recorder.AssertExpectations(t)
}

func TestQuizServiceCompletionRecordFailureDoesNotFailAdvance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	learner := uuid.New()

	recorder := &mockRecorder{}
	recorder.On("Record", mock.Anything, learner, mock.Anything).Return(nil, errors.New("queue full")).Once()

	svc := newQuizService(t, recorder)
	session, err := svc.StartSession(ctx, learner, "quiz")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err = svc.SelectOption(ctx, learner, session.ID, 1)
		require.NoError(t, err)
		_, _, err = svc.Advance(ctx, learner, session.ID)
		require.NoError(t, err)
	}

	got, err := svc.GetSession(ctx, learner, session.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.Result{Score: 1, Total: 2, Complete: true}, got.Result())
	recorder.AssertExpectations(t)
}

func TestQuizServiceOwnership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newQuizService(t, nil)
	owner, stranger := uuid.New(), uuid.New()

	session, err := svc.StartSession(ctx, owner, "quiz")
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, stranger, session.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, _, err = svc.SelectOption(ctx, stranger, session.ID, 0)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, _, err = svc.Advance(ctx, stranger, session.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	assert.ErrorIs(t, svc.EndSession(ctx, stranger, session.ID), ErrNotOwned)

	got, err := svc.GetSession(ctx, owner, session.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.StateAnswering, got.State())
}

func TestQuizServiceEndSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newQuizService(t, nil)
	learner := uuid.New()

	session, err := svc.StartSession(ctx, learner, "quiz")
	require.NoError(t, err)
	require.NoError(t, svc.EndSession(ctx, learner, session.ID))

	_, err = svc.GetSession(ctx, learner, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, _, err = svc.SelectOption(ctx, learner, session.ID, 0)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, svc.EndSession(ctx, learner, session.ID), ErrSessionNotFound)
}
