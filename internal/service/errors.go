package service

import (
	"errors"
	"fmt"
)

// Common service errors. The API layer maps these to HTTP status codes.
var (
	// ErrNotOwned indicates a quiz session belongs to a different learner.
	ErrNotOwned = errors.New("resource is owned by another learner")

	// ErrSlideNotFound indicates the requested slide is not in the deck.
	ErrSlideNotFound = errors.New("slide not found")

	// ErrWrongSlideKind indicates an operation was requested on a slide
	// that does not support it, such as a quiz on a content slide.
	ErrWrongSlideKind = errors.New("operation not supported by slide")

	// ErrSessionNotFound indicates the quiz session does not exist or expired.
	ErrSessionNotFound = errors.New("quiz session not found")

	// ErrInvalidInteraction indicates the interaction request failed validation.
	ErrInvalidInteraction = errors.New("invalid interaction")
)

// ServiceError wraps an unexpected failure with the operation that hit it.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service: %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{Service: service, Operation: operation, Err: err}
}
