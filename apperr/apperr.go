package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindExpired      Kind = "EXPIRED"
	KindInternal     Kind = "INTERNAL"
)

// Error is the error type returned by use cases. Message is safe to show to
// the caller; Err carries the underlying cause for server-side logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error   { return &Error{Kind: KindValidation, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: KindConflict, Message: msg} }
func Expired(msg string) error      { return &Error{Kind: KindExpired, Message: msg} }

// Internal wraps an unexpected failure. The cause is never shown to callers.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf reports the kind of err, treating anything that is not an *Error as
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
