package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInputType is returned when an assessment question asks for an
// unsupported input.
var ErrInvalidInputType = errors.New("invalid assessment input type")

// InputType is the kind of answer an assessment question collects.
type InputType string

// Supported assessment input types
const (
	InputTypeText     InputType = "text"
	InputTypeTextarea InputType = "textarea"
	InputTypeNumber   InputType = "number"
	InputTypeFile     InputType = "file"
)

// AssessmentQuestion is a free-response prompt handed to the grading UI.
// The service only publishes the list; answers never come back through it.
type AssessmentQuestion struct {
	ID           string    `json:"id"            yaml:"id"`
	QuestionText string    `json:"question_text" yaml:"question_text"`
	InputType    InputType `json:"input_type"    yaml:"input_type"`
	Required     bool      `json:"required"      yaml:"required"`
}

// Validate checks the question has an ID, text and a known input type.
func (q AssessmentQuestion) Validate() error {
	if q.ID == "" {
		return ErrQuestionIDEmpty
	}
	if q.QuestionText == "" {
		return fmt.Errorf("%w: assessment question %s", ErrQuestionPromptEmpty, q.ID)
	}
	switch q.InputType {
	case InputTypeText, InputTypeTextarea, InputTypeNumber, InputTypeFile:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidInputType, q.InputType)
	}
}
