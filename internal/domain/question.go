package domain

import (
	"errors"
	"fmt"
)

// Question validation errors
var (
	// ErrQuestionIDEmpty is returned when a question has no ID.
	ErrQuestionIDEmpty = errors.New("question ID cannot be empty")

	// ErrQuestionPromptEmpty is returned when a question has no prompt text.
	ErrQuestionPromptEmpty = errors.New("question prompt cannot be empty")

	// ErrQuestionTooFewOptions is returned when a question offers fewer than two options.
	ErrQuestionTooFewOptions = errors.New("question must offer at least two options")

	// ErrQuestionAnswerOutOfRange is returned when the answer key does not point at an option.
	ErrQuestionAnswerOutOfRange = errors.New("correct answer index out of range")
)

// Question is a single multiple-choice question shown on a quiz slide.
// Questions are defined when a deck is loaded and never change afterwards.
type Question struct {
	ID                 string   `json:"id"                   yaml:"id"`
	Prompt             string   `json:"prompt"               yaml:"prompt"`
	Options            []string `json:"options"              yaml:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index" yaml:"correct_answer_index"`
	Explanation        string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Validate checks that the question is answerable.
func (q Question) Validate() error {
	if q.ID == "" {
		return ErrQuestionIDEmpty
	}
	if q.Prompt == "" {
		return fmt.Errorf("%w: question %s", ErrQuestionPromptEmpty, q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %s has %d", ErrQuestionTooFewOptions, q.ID, len(q.Options))
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return fmt.Errorf("%w: question %s index %d", ErrQuestionAnswerOutOfRange, q.ID, q.CorrectAnswerIndex)
	}
	return nil
}

// IsCorrect reports whether the given option index is the answer key.
func (q Question) IsCorrect(option int) bool {
	return option == q.CorrectAnswerIndex
}

// HasOption reports whether index refers to one of the question's options.
func (q Question) HasOption(index int) bool {
	return index >= 0 && index < len(q.Options)
}
