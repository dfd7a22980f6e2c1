package service

import (
	"errors"
	"fmt"
)

// ErrorKind is the service-layer error taxonomy. Every error surfaced to a
// handler carries one of these kinds; the serializer maps them to HTTP
// statuses.
type ErrorKind string

const (
	ErrKindValidation ErrorKind = "VALIDATION_ERROR"
	ErrKindForeignKey ErrorKind = "FOREIGN_KEY_ERROR"
	ErrKindDuplicate  ErrorKind = "DUPLICATE_ERROR"
	ErrKindNotFound   ErrorKind = "NOT_FOUND"
	ErrKindInternal   ErrorKind = "INTERNAL_ERROR"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidation(format string, args ...any) *Error {
	return &Error{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewForeignKey(format string, args ...any) *Error {
	return &Error{Kind: ErrKindForeignKey, Message: fmt.Sprintf(format, args...)}
}

func NewDuplicate(format string, args ...any) *Error {
	return &Error{Kind: ErrKindDuplicate, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) *Error {
	return &Error{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewInternal(err error, format string, args ...any) *Error {
	return &Error{Kind: ErrKindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// SurveyNotFound is the shared FOREIGN_KEY_ERROR for writes against a
// session that has no parent survey row.
func SurveyNotFound(sessionID string) *Error {
	return NewForeignKey("Survey with session_id '%s' not found, create the survey first", sessionID)
}

// KindOf extracts the taxonomy kind, defaulting to INTERNAL_ERROR.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindInternal
}
