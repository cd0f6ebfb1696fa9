// Package apperr defines the error type shared by zenbreath packages
package apperr

import (
	"errors"
	"fmt"
)

// Error is an application error with a user-facing message and an optional
// underlying cause.
type Error struct {
	Cause   error
	Message string
	// template is the unformatted message a copy made by Fmt came from
	template string
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches target when it is an *Error with the same message, or the
// package-level error a formatted copy was derived from.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	if t.Message == e.Message {
		return true
	}

	return e.template != "" && e.template == t.Message
}

// Fmt returns a copy of the error with its message formatted using args.
func (e *Error) Fmt(args ...any) *Error {
	template := e.template
	if template == "" {
		template = e.Message
	}

	return &Error{
		Message:  fmt.Sprintf(e.Message, args...),
		Cause:    e.Cause,
		template: template,
	}
}

// Wrap returns a copy of the error with cause attached.
func (e *Error) Wrap(cause error) *Error {
	return &Error{
		Message:  e.Message,
		Cause:    cause,
		template: e.template,
	}
}
