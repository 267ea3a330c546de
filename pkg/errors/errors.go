package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrInputInvariant marks a Problem that fails a structural invariant
	// (e.g. a lesson referencing an unknown room type) before analysis runs.
	ErrInputInvariant = New("INPUT_INVARIANT_VIOLATION", http.StatusBadRequest, "input violates a structural invariant")
	// ErrStaticInfeasible marks a Problem the analyser proved infeasible
	// before any solve attempt (e.g. not enough room-weeks to go around).
	ErrStaticInfeasible = New("STATICALLY_INFEASIBLE", http.StatusUnprocessableEntity, "problem is infeasible before solving")
	// ErrModelBuild covers failures translating a Problem into solver
	// variables and constraints.
	ErrModelBuild = New("MODEL_BUILD_FAILED", http.StatusInternalServerError, "failed to build constraint model")
	// ErrMoveSourceMissing marks a move request naming a lesson with no
	// current assignment in the schedule.
	ErrMoveSourceMissing = New("MOVE_SOURCE_MISSING", http.StatusNotFound, "lesson has no current assignment")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
