// Package apperr carries the error taxonomy shared by every service:
// each failed operation returns exactly one typed error, and the HTTP
// boundary maps the kind to a status code.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Unauthorized Kind = iota + 1
	Forbidden
	Validation
	NotFound
	Conflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
