// Package apperr defines the error taxonomy shared by the service layer and
// the HTTP handlers. Services return these; the HTTP layer maps them onto
// status codes and the standard error envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the taxonomy bucket of an error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidArgument
	KindNotFound
	KindForbidden
	KindConflict
	KindInsufficientFunds
)

// Error is a taxonomy-tagged error with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation marks malformed or out-of-range input.
func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

// InvalidArgument marks a structurally valid request that violates a business
// precondition (self-transfer, currency mismatch).
func InvalidArgument(format string, args ...interface{}) *Error {
	return newf(KindInvalidArgument, format, args...)
}

// NotFound marks a missing entity.
func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

// Forbidden marks an ownership violation.
func Forbidden(format string, args ...interface{}) *Error {
	return newf(KindForbidden, format, args...)
}

// Conflict marks a unique-constraint violation.
func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// InsufficientFunds marks a rejected debit.
func InsufficientFunds(format string, args ...interface{}) *Error {
	return newf(KindInsufficientFunds, format, args...)
}

// Internal marks an unexpected error; its message is shown to clients, so
// keep detail out of it and log the cause instead.
func Internal(format string, args ...interface{}) *Error {
	return newf(KindInternal, format, args...)
}

// KindOf extracts the taxonomy kind of err, KindInternal for unknown errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps a taxonomy kind to its HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidArgument:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
