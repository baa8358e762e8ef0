package deck

import (
	"errors"
	"fmt"

	"github.com/phrazzld/kinetic-api/internal/domain"
)

// ErrSlideNotFound is returned when no slide has the requested ID.
var ErrSlideNotFound = errors.New("slide not found")

// ModuleInfo describes a module without its slides.
type ModuleInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Slides int    `json:"slides"`
}

// Registry indexes a validated deck. It is read-only after construction
// and safe for concurrent use.
type Registry struct {
	title   string
	modules []ModuleInfo
	order   []*domain.Slide
	byID    map[string]*domain.Slide
}

// NewRegistry validates every slide of d and indexes them in deck order.
func NewRegistry(d *Deck) (*Registry, error) {
	r := &Registry{
		title: d.Title,
		byID:  make(map[string]*domain.Slide),
	}

	seenModules := make(map[string]bool, len(d.Modules))
	for _, m := range d.Modules {
		if seenModules[m.ID] {
			return nil, fmt.Errorf("%w: duplicate module %s", ErrInvalidDeck, m.ID)
		}
		seenModules[m.ID] = true

		for i := range m.Slides {
			s := m.Slides[i]
			s.ModuleID = m.ID

			if err := s.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
			}
			if s.Kind == domain.SlideKindFormula {
				if err := checkFormula(&s); err != nil {
					return nil, err
				}
			}
			if _, dup := r.byID[s.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate slide %s", ErrInvalidDeck, s.ID)
			}

			r.byID[s.ID] = &s
			r.order = append(r.order, &s)
		}

		r.modules = append(r.modules, ModuleInfo{ID: m.ID, Title: m.Title, Slides: len(m.Slides)})
	}

	return r, nil
}

// Title returns the deck title.
func (r *Registry) Title() string {
	return r.title
}

// Modules lists the deck's modules in order.
func (r *Registry) Modules() []ModuleInfo {
	out := make([]ModuleInfo, len(r.modules))
	copy(out, r.modules)
	return out
}

// Slide returns the slide with the given ID.
func (r *Registry) Slide(id string) (*domain.Slide, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlideNotFound, id)
	}
	return s, nil
}

// Slides returns slides in deck order. A non-empty moduleID limits the
// result to that module.
func (r *Registry) Slides(moduleID string) []*domain.Slide {
	out := make([]*domain.Slide, 0, len(r.order))
	for _, s := range r.order {
		if moduleID == "" || s.ModuleID == moduleID {
			out = append(out, s)
		}
	}
	return out
}
