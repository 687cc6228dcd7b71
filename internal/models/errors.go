package models

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindValidation   ErrorKind = "validation"
	KindTransport    ErrorKind = "transport"
	KindUnauthorized ErrorKind = "unauthorized"
)

// AppError is the single failure type returned by the repository, provider
// and service layers. Op is the operation prefix shown to callers, for
// example "Error fetching posts".
type AppError struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind, so errors.Is(err, ErrNotFound) holds
// for any not-found failure regardless of its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Kind == e.Kind
}

var (
	ErrNotFound     = &AppError{Kind: KindNotFound}
	ErrConflict     = &AppError{Kind: KindConflict}
	ErrValidation   = &AppError{Kind: KindValidation}
	ErrTransport    = &AppError{Kind: KindTransport}
	ErrUnauthorized = &AppError{Kind: KindUnauthorized}
)

func NewError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func ValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func UnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

// WithOp prefixes err with an operation name. Errors that are not an
// AppError are treated as transport failures.
func WithOp(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{Kind: appErr.Kind, Op: op, Message: appErr.Message, Err: appErr.Err}
	}

	return &AppError{Kind: KindTransport, Op: op, Message: err.Error(), Err: err}
}

// KindOf reports the kind of err, or "" when err is not an AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
