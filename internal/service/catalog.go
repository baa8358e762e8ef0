package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/kinetic-api/internal/deck"
	"github.com/phrazzld/kinetic-api/internal/domain"
)

// SlideCatalog is the read side of the slide deck. *deck.Registry
// implements it.
type SlideCatalog interface {
	Title() string
	Modules() []deck.ModuleInfo
	Slide(id string) (*domain.Slide, error)
	Slides(moduleID string) []*domain.Slide
}

var _ SlideCatalog = (*deck.Registry)(nil)

// slideOfKind looks up a slide and checks that it has the wanted kind.
func slideOfKind(catalog SlideCatalog, id string, kind domain.SlideKind) (*domain.Slide, error) {
	slide, err := lookupSlide(catalog, id)
	if err != nil {
		return nil, err
	}
	if slide.Kind != kind {
		return nil, fmt.Errorf("%w: slide %s is a %s slide, not %s", ErrWrongSlideKind, id, slide.Kind, kind)
	}
	return slide, nil
}

func lookupSlide(catalog SlideCatalog, id string) (*domain.Slide, error) {
	slide, err := catalog.Slide(id)
	if errors.Is(err, deck.ErrSlideNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSlideNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return slide, nil
}
