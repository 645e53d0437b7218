// Package apperror defines the application's closed set of error kinds.
//
// The service layer returns these instead of HTTP status codes so the core
// stays transport-agnostic; the handler package maps each kind to a status
// at the boundary (see handler/response.go).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
)

type AppError struct {
	Err     error  // sentinel identifying the kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a resource that is absent — or owned by a different
// caller. The two cases are deliberately indistinguishable so that knowing a
// record's ID never reveals whether it exists under another account.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthenticated reports a missing, invalid, or expired credential. The
// message is always generic — the caller must never learn which check failed.
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "authentication invalid",
	}
}

// InvalidCredentials is the single undifferentiated failure for login —
// identical whether the email is unknown or the password is wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "invalid credentials",
	}
}
