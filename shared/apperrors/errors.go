// Package apperrors defines the request-scoped errors the services return.
// Their messages are safe to show to API clients verbatim.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error for the transport layer.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
	KindDuplicate  Kind = "duplicate"
)

// Error is implemented by every error in this package.
type Error interface {
	error
	Kind() Kind
}

// NotFoundError reports that the target of a request does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
func (e *NotFoundError) Kind() Kind    { return KindNotFound }

// ValidationError reports a malformed or unknown input value.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Kind() Kind    { return KindValidation }

// DuplicateError reports a uniqueness conflict.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }
func (e *DuplicateError) Kind() Kind    { return KindDuplicate }

func NotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func Validation(message string) error {
	return &ValidationError{Message: message}
}

func Duplicate(message string) error {
	return &DuplicateError{Message: message}
}

// UserNotFound is the error for a missing user id.
func UserNotFound(id int64) error {
	return NotFound("User by id:%d was not found", id)
}

// As extracts the application error from err's chain, if any.
func As(err error) (Error, bool) {
	var appErr Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
