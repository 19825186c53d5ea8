package service

import "errors"

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrUpstream     = errors.New("upstream failure")
)

// Error is a classified failure whose Message is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func validationError(msg string) error { return newError(ErrValidation, msg) }
func conflictError(msg string) error   { return newError(ErrConflict, msg) }
func notFoundError(msg string) error   { return newError(ErrNotFound, msg) }
func forbiddenError(msg string) error  { return newError(ErrForbidden, msg) }

// Message returns the client-facing text of err, or fallback when err is unclassified.
func Message(err error, fallback string) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return fallback
}
