package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/animation"
	"github.com/phrazzld/kinetic-api/internal/deck"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/domain/physics"
	"github.com/phrazzld/kinetic-api/internal/domain/quiz"
	"github.com/phrazzld/kinetic-api/internal/service"
)

// Request payloads

// SelectOptionRequest is the body of POST /quiz/sessions/{id}/select.
type SelectOptionRequest struct {
	Option *int `json:"option" validate:"required,gte=0"`
}

// FormulaRequest is the body of POST /slides/{id}/formula. An empty body
// evaluates the slide's presets.
type FormulaRequest struct {
	Inputs map[string]float64 `json:"inputs"`
}

// RecordInteractionRequest is the body of POST /interactions.
type RecordInteractionRequest struct {
	SlideID       string          `json:"slide_id"       validate:"required,max=128"`
	InteractionID string          `json:"interaction_id" validate:"required,max=128"`
	Value         json.RawMessage `json:"value"`
	Timestamp     *time.Time      `json:"timestamp"`
}

// Response payloads

// SlideSummary is one entry of the slide listing.
type SlideSummary struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	ModuleID    string           `json:"module_id"`
	SubmoduleID string           `json:"submodule_id,omitempty"`
	Kind        domain.SlideKind `json:"kind"`
}

// SlideListResponse is the body of GET /slides.
type SlideListResponse struct {
	Title   string            `json:"title"`
	Theme   domain.Theme      `json:"theme"`
	Modules []deck.ModuleInfo `json:"modules"`
	Slides  []SlideSummary    `json:"slides"`
}

// QuestionView is a quiz question without its answer key.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// QuizView lists a quiz slide's questions.
type QuizView struct {
	Questions []QuestionView `json:"questions"`
}

// AnimationStepView is a slide animation step with its duration in milliseconds.
type AnimationStepView struct {
	Name       string  `json:"name"`
	DurationMS int64   `json:"duration_ms"`
	Fraction   float64 `json:"fraction"`
}

// FormulaView describes a formula slide's controls.
type FormulaView struct {
	Formula   physics.Formula       `json:"formula"`
	Presets   map[string]float64    `json:"presets,omitempty"`
	Visual    physics.VisualMapping `json:"visual"`
	Animation []AnimationStepView   `json:"animation,omitempty"`
}

// SlideView is the body of GET /slides/{id}. The theme travels with every
// slide.
type SlideView struct {
	SlideSummary
	Theme      domain.Theme                `json:"theme"`
	Body       string                      `json:"body,omitempty"`
	Quiz       *QuizView                   `json:"quiz,omitempty"`
	Formula    *FormulaView                `json:"formula,omitempty"`
	Assessment []domain.AssessmentQuestion `json:"assessment,omitempty"`
}

// SessionView is a quiz session as the learner sees it. The answer key of
// the current question is only included once it is revealed.
type SessionView struct {
	ID                 uuid.UUID     `json:"id"`
	SlideID            string        `json:"slide_id"`
	State              quiz.State    `json:"state"`
	CurrentIndex       int           `json:"current_index"`
	Total              int           `json:"total"`
	Score              int           `json:"score"`
	Question           *QuestionView `json:"question,omitempty"`
	SelectedOption     *int          `json:"selected_option,omitempty"`
	CorrectAnswerIndex *int          `json:"correct_answer_index,omitempty"`
	Explanation        string        `json:"explanation,omitempty"`
	Answers            []quiz.Answer `json:"answers"`
	Result             quiz.Result   `json:"result"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// QuizActionResponse is returned by select and advance. Applied is false
// when the action was not valid in the session's state.
type QuizActionResponse struct {
	Applied bool        `json:"applied"`
	Session SessionView `json:"session"`
}

// TimelineStepView is one computed animation step.
type TimelineStepView struct {
	Name       string  `json:"name"`
	DurationMS int64   `json:"duration_ms"`
	Offset     float64 `json:"offset"`
}

// FormulaResponse is the body of POST /slides/{id}/formula.
type FormulaResponse struct {
	SlideID string             `json:"slide_id"`
	Formula physics.Formula    `json:"formula"`
	Reading physics.Reading    `json:"reading"`
	Offset  float64            `json:"offset"`
	Steps   []TimelineStepView `json:"steps"`
	TotalMS int64              `json:"total_ms"`
	Frames  []float64          `json:"frames"`
}

// AssessmentResponse is the body of GET /slides/{id}/assessment.
type AssessmentResponse struct {
	SlideID   string                      `json:"slide_id"`
	Questions []domain.AssessmentQuestion `json:"questions"`
}

// InteractionResponse is a recorded interaction.
type InteractionResponse struct {
	ID            uuid.UUID       `json:"id"`
	SlideID       string          `json:"slide_id"`
	ModuleID      string          `json:"module_id"`
	SubmoduleID   string          `json:"submodule_id,omitempty"`
	InteractionID string          `json:"interaction_id"`
	Value         json.RawMessage `json:"value"`
	Timestamp     time.Time       `json:"timestamp"`
}

// InteractionListResponse is the body of GET /interactions.
type InteractionListResponse struct {
	Interactions []InteractionResponse `json:"interactions"`
}

func slideToSummary(s *domain.Slide) SlideSummary {
	return SlideSummary{
		ID:          s.ID,
		Title:       s.Title,
		ModuleID:    s.ModuleID,
		SubmoduleID: s.SubmoduleID,
		Kind:        s.Kind,
	}
}

func questionToView(q domain.Question) QuestionView {
	return QuestionView{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Options: append([]string(nil), q.Options...),
	}
}

// slideToView shapes a slide for the client. Answer keys are dropped.
func slideToView(s *domain.Slide, theme domain.Theme) (SlideView, error) {
	view := SlideView{
		SlideSummary: slideToSummary(s),
		Theme:        theme,
		Body:         s.Body,
		Assessment:   s.Assessment,
	}

	if s.Quiz != nil {
		qv := &QuizView{Questions: make([]QuestionView, len(s.Quiz.Questions))}
		for i, q := range s.Quiz.Questions {
			qv.Questions[i] = questionToView(q)
		}
		view.Quiz = qv
	}

	if s.Formula != nil {
		formula, err := physics.Lookup(s.Formula.Formula)
		if err != nil {
			return SlideView{}, err
		}
		fv := &FormulaView{
			Formula: formula,
			Presets: s.Formula.Inputs,
			Visual:  s.Formula.Visual,
		}
		for _, step := range s.Formula.Animation {
			fv.Animation = append(fv.Animation, AnimationStepView{
				Name:       step.Name,
				DurationMS: step.Duration.Milliseconds(),
				Fraction:   step.Fraction,
			})
		}
		view.Formula = fv
	}

	return view, nil
}

func sessionToView(s *quiz.Session) SessionView {
	view := SessionView{
		ID:           s.ID,
		SlideID:      s.SlideID,
		State:        s.State(),
		CurrentIndex: s.CurrentIndex,
		Total:        len(s.Questions),
		Score:        s.Score,
		Answers:      s.Answers,
		Result:       s.Result(),
		UpdatedAt:    s.UpdatedAt,
	}
	if view.Answers == nil {
		view.Answers = []quiz.Answer{}
	}

	if q := s.CurrentQuestion(); q != nil {
		qv := questionToView(*q)
		view.Question = &qv
		view.SelectedOption = s.SelectedOption
		if s.Revealed {
			correct := q.CorrectAnswerIndex
			view.CorrectAnswerIndex = &correct
			view.Explanation = q.Explanation
		}
	}

	return view
}

func timelineToSteps(tl animation.Timeline) []TimelineStepView {
	steps := make([]TimelineStepView, len(tl.Steps))
	for i, st := range tl.Steps {
		steps[i] = TimelineStepView{
			Name:       st.Name,
			DurationMS: st.Duration.Milliseconds(),
			Offset:     st.Offset,
		}
	}
	return steps
}

func formulaResultToResponse(res *service.FormulaResult) FormulaResponse {
	return FormulaResponse{
		SlideID: res.SlideID,
		Formula: res.Formula,
		Reading: res.Reading,
		Offset:  res.Offset,
		Steps:   timelineToSteps(res.Timeline),
		TotalMS: res.Timeline.Total().Milliseconds(),
		Frames:  res.Frames,
	}
}

func interactionToResponse(i *domain.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:            i.ID,
		SlideID:       i.SlideID,
		ModuleID:      i.ModuleID,
		SubmoduleID:   i.SubmoduleID,
		InteractionID: i.InteractionID,
		Value:         i.Value,
		Timestamp:     i.Timestamp,
	}
}
