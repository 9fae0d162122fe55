package errcode

import (
	"errors"
	"net/http"
)

// Kind classifies an application error into the closed taxonomy the API
// surfaces to clients. Anything outside the taxonomy is treated as an
// internal error and never leaks its original message.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindPermission
	KindUnauthorized
)

// Error carries a kind plus a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation marks malformed or out-of-range input.
func Validation(msg string) *Error { return newError(KindValidation, msg) }

// NotFound marks a referenced entity that does not exist.
func NotFound(msg string) *Error { return newError(KindNotFound, msg) }

// Permission marks an authenticated caller lacking entitlement.
func Permission(msg string) *Error { return newError(KindPermission, msg) }

// Unauthorized marks missing, invalid or expired credentials.
func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg) }

// KindOf extracts the taxonomy kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps a taxonomy kind to its HTTP status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindPermission:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
