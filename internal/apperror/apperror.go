// Package apperror defines the error kinds services return. HTTP handlers
// map each kind to a status code with errors.Is
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotVerified  = errors.New("account not verified")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type AppError struct {
	Err     error  // kind, one of the sentinels above
	Message string // human readable message
	Field   string // optional field causing the error
	Fields  map[string]string
	Code    string // optional machine readable code, e.g. "account_not_verified"
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed returns a 400 class error tied to a single input field.
// field may be empty for errors that concern the request as a whole
func ValidationFailed(field, message string) *AppError {
	e := &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}

	if field != "" {
		e.Fields = map[string]string{field: message}
	}

	return e
}

// ValidationFields returns a 400 class error carrying one message per field
func ValidationFields(fields map[string]string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "Invalid request body",
		Fields:  fields,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

// InvalidCredentials is the login failure for an unknown user or a wrong password
func InvalidCredentials(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message, Code: "invalid_credentials"}
}

func NotVerified(message string) *AppError {
	return &AppError{Err: ErrNotVerified, Message: message, Code: "account_not_verified"}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

// NotFoundf is NotFound with a formatted message
func NotFoundf(format string, a ...any) *AppError {
	return NotFound(fmt.Sprintf(format, a...))
}
