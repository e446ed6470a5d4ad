// Package apperror defines the typed error kinds returned by services so that
// handlers can tell an expected outcome (not found, invalid input) from a
// storage or runtime fault.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	BadRequest
	Auth
	NotFound
	Conflict
)

type AppError struct {
	Kind    Kind
	Message string
	// Details is rendered as the "errors" list of the response envelope.
	Details []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case Validation:
		return http.StatusUnprocessableEntity
	case BadRequest:
		return http.StatusBadRequest
	case Auth:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NewValidationError(message string, details ...string) *AppError {
	return &AppError{Kind: Validation, Message: message, Details: details}
}

func NewBadRequestError(message string, err error) *AppError {
	return New(BadRequest, message, err)
}

func NewAuthError(message string, err error) *AppError {
	return New(Auth, message, err)
}

func NewNotFoundError(message string) *AppError {
	return New(NotFound, message, nil)
}

func NewConflictError(message string, details ...string) *AppError {
	return &AppError{Kind: Conflict, Message: message, Details: details}
}

func NewInternalError(message string, err error) *AppError {
	return New(Internal, message, err)
}

// From returns err as an *AppError. Untyped errors become Internal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("An error occurred", err)
}

func KindOf(err error) Kind {
	return From(err).Kind
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == NotFound
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == Validation
}

func IsAuth(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == Auth
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == Conflict
}
