package services

import (
	"errors"
	"fmt"
)

// Error kinds for expected business outcomes. Anything else a service
// returns is an infrastructure failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ServiceError carries a caller-facing message and matches its Kind with errors.Is.
type ServiceError struct {
	Kind    error
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func invalidInput(format string, args ...interface{}) error {
	return newError(ErrInvalidInput, format, args...)
}

func notFound(what string) error {
	return newError(ErrNotFound, "%s not found", what)
}

func conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}
