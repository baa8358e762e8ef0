package service

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/kinetic-api/internal/animation"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/domain/physics"
)

// defaultStepDuration is used for formula slides that define no animation.
const defaultStepDuration = 600 * time.Millisecond

// FormulaResult is everything a formula display needs to render one set of
// slider values.
type FormulaResult struct {
	SlideID  string             `json:"slide_id"`
	Formula  physics.Formula    `json:"formula"`
	Reading  physics.Reading    `json:"reading"`
	Offset   float64            `json:"offset"`
	Timeline animation.Timeline `json:"timeline"`
	Frames   []float64          `json:"frames"`
}

// FormulaService evaluates formula display slides.
type FormulaService interface {
	// Evaluate runs the slide's formula. Inputs override the slide's
	// presets, which override the formula defaults; values are clamped to
	// slider ranges.
	Evaluate(ctx context.Context, slideID string, inputs map[string]float64) (*FormulaResult, error)
}

type formulaServiceImpl struct {
	catalog SlideCatalog
	spring  animation.SpringConfig
}

var _ FormulaService = (*formulaServiceImpl)(nil)

// NewFormulaService creates a FormulaService using spring to sample the
// settle frames.
func NewFormulaService(catalog SlideCatalog, spring animation.SpringConfig) (FormulaService, error) {
	if catalog == nil {
		return nil, errors.New("slide catalog is required")
	}
	return &formulaServiceImpl{catalog: catalog, spring: spring}, nil
}

func (s *formulaServiceImpl) Evaluate(
	ctx context.Context,
	slideID string,
	inputs map[string]float64,
) (*FormulaResult, error) {
	slide, err := slideOfKind(s.catalog, slideID, domain.SlideKindFormula)
	if err != nil {
		return nil, err
	}
	tmpl := slide.Formula

	formula, err := physics.Lookup(tmpl.Formula)
	if err != nil {
		return nil, NewServiceError("formula", "evaluate", err)
	}

	values := make(map[string]float64, len(tmpl.Inputs)+len(inputs))
	for k, v := range tmpl.Inputs {
		values[k] = v
	}
	for k, v := range inputs {
		values[k] = v
	}

	reading := formula.Evaluate(values)
	offset := tmpl.Visual.Offset(reading.Result)

	return &FormulaResult{
		SlideID:  slide.ID,
		Formula:  formula,
		Reading:  reading,
		Offset:   offset,
		Timeline: BuildTimeline(tmpl.Animation, offset),
		Frames:   animation.Settle(0, offset, s.spring),
	}, nil
}

// BuildTimeline turns a slide's animation steps into a timeline ending at
// offset. Each step moves to its fraction of the offset.
func BuildTimeline(steps []domain.AnimationStep, offset float64) animation.Timeline {
	if len(steps) == 0 {
		return animation.Timeline{Steps: []animation.Step{
			{Name: "move", Duration: defaultStepDuration, Offset: offset},
		}}
	}

	out := make([]animation.Step, len(steps))
	for i, st := range steps {
		out[i] = animation.Step{Name: st.Name, Duration: st.Duration, Offset: st.Fraction * offset}
	}
	return animation.Timeline{Steps: out}
}
