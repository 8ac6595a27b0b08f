// Package apperr defines the error taxonomy shared by the sheet store and the
// tracker facade. Every error that crosses the facade boundary is one of these
// kinds so HTTP handlers can map it to a status without string matching.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	AuthRequired     Kind = "auth_required"
	NotFound         Kind = "not_found"
	ValidationFailed Kind = "validation_failed"
	TransportError   Kind = "transport_error"
	IntegrityError   Kind = "integrity_error"
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of err, or TransportError for errors that did not
// originate in this package (anything else escaping the facade is a failed
// call against the backing store).
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return TransportError
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
