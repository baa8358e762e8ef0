// Package quiz implements quiz progression: a linear walk through a fixed
// list of questions, one at a time, with a running score.
//
// A session moves Answering -> Revealed -> Answering ... -> Complete. There
// is no branching and no retry. Operations called in the wrong state are
// ignored rather than reported, so a session can never be driven into an
// inconsistent state through its methods.
package quiz

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain"
)

// State is the derived progression state of a session.
type State string

// Possible session states
const (
	StateAnswering State = "answering"
	StateRevealed  State = "revealed"
	StateComplete  State = "complete"
)

// Answer records the option chosen for one question.
type Answer struct {
	QuestionID string `json:"question_id"`
	Option     int    `json:"option"`
	Correct    bool   `json:"correct"`
}

// Session is a single learner's pass through a quiz slide. It is created
// fresh for every slide view and discarded when the slide goes away.
type Session struct {
	ID             uuid.UUID         `json:"id"`
	LearnerID      uuid.UUID         `json:"learner_id"`
	SlideID        string            `json:"slide_id"`
	Questions      []domain.Question `json:"questions"`
	CurrentIndex   int               `json:"current_index"`
	SelectedOption *int              `json:"selected_option,omitempty"`
	Revealed       bool              `json:"revealed"`
	Score          int               `json:"score"`
	Answers        []Answer          `json:"answers"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Result summarises how a session went.
type Result struct {
	Score    int  `json:"score"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
}

// NewSession starts an unowned session at the first question. The questions
// and their options are copied so later changes by the caller cannot leak in.
func NewSession(slideID string, questions []domain.Question, now time.Time) *Session {
	qs := copyQuestions(questions)

	return &Session{
		ID:        uuid.New(),
		SlideID:   slideID,
		Questions: qs,
		Answers:   make([]Answer, 0, len(qs)),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// State derives the session's current state.
func (s *Session) State() State {
	switch {
	case s.CurrentIndex >= len(s.Questions):
		return StateComplete
	case s.Revealed:
		return StateRevealed
	default:
		return StateAnswering
	}
}

// CurrentQuestion returns the question being answered, or nil once the
// session is complete.
func (s *Session) CurrentQuestion() *domain.Question {
	if s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// SelectOption records the learner's choice for the current question and
// reveals whether it was right. The score only moves when the choice
// matches the answer key. It returns false, leaving the session untouched,
// when the session is not awaiting an answer or index is not an option.
func (s *Session) SelectOption(index int, now time.Time) bool {
	if s.State() != StateAnswering {
		return false
	}

	q := s.Questions[s.CurrentIndex]
	if !q.HasOption(index) {
		return false
	}

	correct := q.IsCorrect(index)
	if correct {
		s.Score++
	}

	selected := index
	s.SelectedOption = &selected
	s.Revealed = true
	s.Answers = append(s.Answers, Answer{QuestionID: q.ID, Option: index, Correct: correct})
	s.UpdatedAt = now.UTC()

	return true
}

// Advance moves past a revealed question. It returns false, leaving the
// session untouched, unless the current question has been answered.
func (s *Session) Advance(now time.Time) bool {
	if s.State() != StateRevealed {
		return false
	}

	s.CurrentIndex++
	s.SelectedOption = nil
	s.Revealed = false
	s.UpdatedAt = now.UTC()

	return true
}

// Result reports the score so far.
func (s *Session) Result() Result {
	return Result{
		Score:    s.Score,
		Total:    len(s.Questions),
		Complete: s.State() == StateComplete,
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s

	c.Questions = copyQuestions(s.Questions)
	c.Answers = append(make([]Answer, 0, len(s.Answers)), s.Answers...)
	if s.SelectedOption != nil {
		selected := *s.SelectedOption
		c.SelectedOption = &selected
	}

	return &c
}

func copyQuestions(questions []domain.Question) []domain.Question {
	qs := make([]domain.Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		qs[i] = q
	}
	return qs
}
