package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map each to one HTTP status; anything else is a 500.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
)

// ServiceError pairs an error kind with the message shown to the caller.
// Err, when set, is the underlying cause and is only logged.
type ServiceError struct {
	Kind    error
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NewValidationError(message string) error {
	return &ServiceError{Kind: ErrValidationFailed, Message: message}
}

func NewUnauthorizedError(message string) error {
	return &ServiceError{Kind: ErrUnauthorized, Message: message}
}

func NewForbiddenError(message string) error {
	return &ServiceError{Kind: ErrForbidden, Message: message}
}

func NewNotFoundError(message string) error {
	return &ServiceError{Kind: ErrNotFound, Message: message}
}

func NewConflictError(message string, cause error) error {
	return &ServiceError{Kind: ErrConflict, Message: message, Err: cause}
}

// UserMessage returns the caller-facing message carried by err, or fallback.
func UserMessage(err error, fallback string) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
