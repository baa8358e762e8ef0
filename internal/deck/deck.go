// Package deck loads lesson decks: ordered modules of slides declared in
// YAML. A default physics deck is compiled into the binary; deployments
// can point at their own file instead.
package deck

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/domain/physics"
)

//go:embed decks/*.yaml
var decksFS embed.FS

// DefaultDeckFile is the embedded deck used when no override is configured.
const DefaultDeckFile = "decks/physics.yaml"

// ErrInvalidDeck is returned when a deck cannot be parsed or fails validation.
var ErrInvalidDeck = errors.New("invalid deck")

// Deck is the document form of a lesson deck.
type Deck struct {
	Title   string   `yaml:"title"   validate:"required"`
	Modules []Module `yaml:"modules" validate:"required,min=1,dive"`
}

// Module groups the slides of one lesson topic.
type Module struct {
	ID     string         `yaml:"id"     validate:"required"`
	Title  string         `yaml:"title"  validate:"required"`
	Slides []domain.Slide `yaml:"slides" validate:"required,min=1"`
}

var validate = validator.New()

// Load parses and validates a deck from r.
func Load(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Deck
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}

	if err := validate.Struct(d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}

	return NewRegistry(&d)
}

// LoadFile loads a deck from a YAML file on disk.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Default loads the embedded physics deck.
func Default() (*Registry, error) {
	data, err := decksFS.ReadFile(DefaultDeckFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded deck: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// checkFormula verifies that a formula slide names a registered formula
// and only presets inputs that formula takes.
func checkFormula(s *domain.Slide) error {
	f, err := physics.Lookup(s.Formula.Formula)
	if err != nil {
		return fmt.Errorf("%w: slide %s: %v", ErrInvalidDeck, s.ID, err)
	}

	known := make(map[string]bool, len(f.Inputs))
	for _, in := range f.Inputs {
		known[in.Name] = true
	}
	for name := range s.Formula.Inputs {
		if !known[name] {
			return fmt.Errorf("%w: slide %s presets unknown input %q for %s",
				ErrInvalidDeck, s.ID, name, f.Name)
		}
	}

	if s.Formula.Visual.TrackLength <= 0 {
		return fmt.Errorf("%w: slide %s needs a positive track length", ErrInvalidDeck, s.ID)
	}

	return nil
}
