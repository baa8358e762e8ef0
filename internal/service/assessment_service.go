package service

import (
	"context"

	"github.com/phrazzld/kinetic-api/internal/domain"
)

// AssessmentService serves the static question list of assessment slides.
type AssessmentService interface {
	Questions(ctx context.Context, slideID string) ([]domain.AssessmentQuestion, error)
}

type assessmentServiceImpl struct {
	catalog SlideCatalog
}

// NewAssessmentService creates an AssessmentService.
func NewAssessmentService(catalog SlideCatalog) AssessmentService {
	return &assessmentServiceImpl{catalog: catalog}
}

func (s *assessmentServiceImpl) Questions(ctx context.Context, slideID string) ([]domain.AssessmentQuestion, error) {
	slide, err := slideOfKind(s.catalog, slideID, domain.SlideKindAssessment)
	if err != nil {
		return nil, err
	}

	out := make([]domain.AssessmentQuestion, len(slide.Assessment))
	copy(out, slide.Assessment)
	return out, nil
}
