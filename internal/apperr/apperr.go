// Package apperr defines the error kinds shared by services and handlers.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAttemptLimitExceeded
	KindAuth
	KindForbidden
	KindRateLimited
	KindRenderFailure
	KindPersistenceConflict
)

var kindNames = map[Kind]string{
	KindInternal:             "internal",
	KindValidation:           "validation",
	KindNotFound:             "not_found",
	KindAttemptLimitExceeded: "attempt_limit_exceeded",
	KindAuth:                 "auth",
	KindForbidden:            "forbidden",
	KindRateLimited:          "rate_limited",
	KindRenderFailure:        "render_failure",
	KindPersistenceConflict:  "persistence_conflict",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Status maps a kind to the HTTP status used by the response envelope.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindAttemptLimitExceeded:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindPersistenceConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func AttemptLimitExceeded(message string) *Error {
	return New(KindAttemptLimitExceeded, message)
}

func Auth(message string) *Error {
	return New(KindAuth, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func RateLimited(message string) *Error {
	return New(KindRateLimited, message)
}

func RenderFailure(message string, err error) *Error {
	return Wrap(KindRenderFailure, message, err)
}

func Conflict(message string, err error) *Error {
	return Wrap(KindPersistenceConflict, message, err)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// KindOf reports the kind of the outermost *Error in err's chain.
// Errors that carry no kind are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// AsKind returns a copy of err with its kind replaced. Errors that are not
// an *Error are wrapped.
func AsKind(err error, kind Kind) *Error {
	var e *Error
	if errors.As(err, &e) {
		cp := *e
		cp.Kind = kind
		return &cp
	}
	return Wrap(kind, err.Error(), err)
}
