// Package apperr is the error taxonomy shared by services and repositories.
// Every failure surfaced to a caller carries a Kind; the HTTP layer maps kinds
// to status codes in one place (StatusCode).
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindInternal       Kind = "internal"
	KindInvalid        Kind = "invalid"
	KindUnauthorized   Kind = "unauthorized"
	KindInvalidToken   Kind = "invalid_token"
	KindTokenRevoked   Kind = "token_revoked"
	KindForbidden      Kind = "forbidden"
	KindNotFound       Kind = "not_found"
	KindDuplicateEmail Kind = "duplicate_email"
	KindDuplicateToken Kind = "duplicate_token"
	KindCodeConflict   Kind = "code_conflict"
	KindConflict       Kind = "conflict"
	KindParentNotFound Kind = "parent_not_found"
	KindHasDependents  Kind = "has_dependents"
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrInvalid        = &Error{Kind: KindInvalid, Message: "invalid input"}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized, Message: "authorization header missing"}
	ErrInvalidToken   = &Error{Kind: KindInvalidToken, Message: "invalid or expired token"}
	ErrTokenRevoked   = &Error{Kind: KindTokenRevoked, Message: "token has been revoked"}
	ErrForbidden      = &Error{Kind: KindForbidden, Message: "forbidden: insufficient privileges"}
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "not found"}
	ErrDuplicateEmail = &Error{Kind: KindDuplicateEmail, Message: "email already exists"}
	ErrDuplicateToken = &Error{Kind: KindDuplicateToken, Message: "token already revoked"}
	ErrCodeConflict   = &Error{Kind: KindCodeConflict, Message: "code already exists"}
	ErrConflict       = &Error{Kind: KindConflict, Message: "conflict"}
	ErrParentNotFound = &Error{Kind: KindParentNotFound, Message: "parent not found"}
	ErrHasDependents  = &Error{Kind: KindHasDependents, Message: "entity is still referenced"}
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and a client-safe message to an underlying cause.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message for err.
// Errors outside the taxonomy never leak their text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnauthorized, KindInvalidToken, KindTokenRevoked:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateEmail, KindDuplicateToken, KindCodeConflict, KindConflict, KindHasDependents:
		return http.StatusConflict
	case KindParentNotFound:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
