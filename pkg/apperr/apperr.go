// Package apperr defines the error kinds shared by services, repositories and handlers.
package apperr

import "errors"

// Error kinds. Match them with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("record already exists")
	ErrNotFound       = errors.New("not found")
	ErrAuth           = errors.New("invalid credentials")
	ErrUnauthorized   = errors.New("authentication required")
	ErrInvalidRequest = errors.New("invalid request")
)

// Error carries a user-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// New returns an *Error of the given kind.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) *Error     { return New(ErrValidation, msg) }
func Conflict(msg string) *Error       { return New(ErrConflict, msg) }
func NotFound(msg string) *Error       { return New(ErrNotFound, msg) }
func InvalidRequest(msg string) *Error { return New(ErrInvalidRequest, msg) }

// Message returns the user-facing message of err, or fallback when err carries none.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
