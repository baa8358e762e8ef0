package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/kinetic-api/internal/domain/physics"
)

// Slide validation errors
var (
	// ErrSlideIDEmpty is returned when a slide has no ID.
	ErrSlideIDEmpty = errors.New("slide ID cannot be empty")

	// ErrSlideModuleEmpty is returned when a slide is not attached to a module.
	ErrSlideModuleEmpty = errors.New("slide module ID cannot be empty")

	// ErrSlideTemplateMismatch is returned when a slide's kind does not match
	// the template it carries.
	ErrSlideTemplateMismatch = errors.New("slide template does not match slide kind")
)

// SlideKind identifies which template a slide is built from.
type SlideKind string

// Possible slide kinds
const (
	SlideKindContent    SlideKind = "content"
	SlideKindQuiz       SlideKind = "quiz"
	SlideKindFormula    SlideKind = "formula"
	SlideKindAssessment SlideKind = "assessment"
)

// Valid reports whether k is a known slide kind.
func (k SlideKind) Valid() bool {
	switch k {
	case SlideKindContent, SlideKindQuiz, SlideKindFormula, SlideKindAssessment:
		return true
	default:
		return false
	}
}

// Slide is one screen of lesson content. Every slide shares this shape;
// what varies between topics is the template it carries, not code.
type Slide struct {
	ID          string               `json:"id"           yaml:"id"`
	Title       string               `json:"title"        yaml:"title"`
	ModuleID    string               `json:"module_id"    yaml:"-"`
	SubmoduleID string               `json:"submodule_id" yaml:"submodule_id"`
	Kind        SlideKind            `json:"kind"         yaml:"kind"`
	Body        string               `json:"body,omitempty" yaml:"body,omitempty"`
	Quiz        *QuizTemplate        `json:"quiz,omitempty" yaml:"quiz,omitempty"`
	Formula     *FormulaTemplate     `json:"formula,omitempty" yaml:"formula,omitempty"`
	Assessment  []AssessmentQuestion `json:"assessment,omitempty" yaml:"assessment,omitempty"`
}

// QuizTemplate holds the ordered questions of a quiz slide.
type QuizTemplate struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// FormulaTemplate parametrizes a formula-display slide: which formula it
// evaluates, the slider defaults, how the result maps onto the demo track,
// and the timed steps of the accompanying animation.
type FormulaTemplate struct {
	Formula   string                `json:"formula"   yaml:"formula"`
	Inputs    map[string]float64    `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Visual    physics.VisualMapping `json:"visual"    yaml:"visual"`
	Animation []AnimationStep       `json:"animation,omitempty" yaml:"animation,omitempty"`
}

// AnimationStep is one timed step of a formula slide's demo. Fraction is
// the share of the computed visual offset the element reaches when the
// step ends.
type AnimationStep struct {
	Name     string        `json:"name"     yaml:"name"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Fraction float64       `json:"fraction" yaml:"fraction"`
}

// Validate checks that the slide is internally consistent.
func (s *Slide) Validate() error {
	if s.ID == "" {
		return ErrSlideIDEmpty
	}
	if s.ModuleID == "" {
		return fmt.Errorf("%w: slide %s", ErrSlideModuleEmpty, s.ID)
	}
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: %q on slide %s", ErrInvalidSlideKind, s.Kind, s.ID)
	}

	if s.Quiz != nil && s.Kind != SlideKindQuiz {
		return fmt.Errorf("%w: %s slide %s carries a quiz", ErrSlideTemplateMismatch, s.Kind, s.ID)
	}
	if s.Formula != nil && s.Kind != SlideKindFormula {
		return fmt.Errorf("%w: %s slide %s carries a formula", ErrSlideTemplateMismatch, s.Kind, s.ID)
	}
	if len(s.Assessment) > 0 && s.Kind != SlideKindAssessment {
		return fmt.Errorf("%w: %s slide %s carries assessment questions", ErrSlideTemplateMismatch, s.Kind, s.ID)
	}

	switch s.Kind {
	case SlideKindQuiz:
		if s.Quiz == nil {
			return fmt.Errorf("%w: quiz slide %s has no questions", ErrSlideTemplateMismatch, s.ID)
		}
		seen := make(map[string]bool, len(s.Quiz.Questions))
		for _, q := range s.Quiz.Questions {
			if err := q.Validate(); err != nil {
				return fmt.Errorf("slide %s: %w", s.ID, err)
			}
			if seen[q.ID] {
				return fmt.Errorf("%w: duplicate question %s on slide %s", ErrValidation, q.ID, s.ID)
			}
			seen[q.ID] = true
		}
	case SlideKindFormula:
		if s.Formula == nil || s.Formula.Formula == "" {
			return fmt.Errorf("%w: formula slide %s has no formula", ErrSlideTemplateMismatch, s.ID)
		}
		for _, step := range s.Formula.Animation {
			if step.Duration <= 0 {
				return fmt.Errorf("%w: animation step %q on slide %s needs a positive duration",
					ErrValidation, step.Name, s.ID)
			}
		}
	case SlideKindAssessment:
		if len(s.Assessment) == 0 {
			return fmt.Errorf("%w: assessment slide %s has no questions", ErrSlideTemplateMismatch, s.ID)
		}
		for _, q := range s.Assessment {
			if err := q.Validate(); err != nil {
				return fmt.Errorf("slide %s: %w", s.ID, err)
			}
		}
	}

	return nil
}
