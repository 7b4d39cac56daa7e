// Package errs defines the error taxonomy shared by the HTTP layer and the
// services: every error that reaches a handler maps to exactly one status
// code and a JSON body {"msg": ...}.
package errs

import (
	"errors"
	"net/http"
)

// Kind classifies an error for HTTP status mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindForbidden
	KindConflict
)

// Error carries a kind, a client-safe message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input (400).
func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

// NotFound reports a missing entity (404).
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// Auth reports a missing or invalid token (401).
func Auth(msg string) error { return &Error{Kind: KindAuth, Msg: msg} }

// Forbidden reports a role mismatch (403).
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

// Conflict reports a uniqueness violation (409).
func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// Internal wraps a store or gateway failure (500). The cause is kept for
// logging but never shown to the client.
func Internal(msg string, err error) error { return &Error{Kind: KindInternal, Msg: msg, Err: err} }

// Status returns the HTTP status code for err.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err. Internal causes are
// never leaked.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal server error"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
