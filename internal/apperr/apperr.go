// Package apperr is the error taxonomy of the workspace engines.
//
// Engines fail with exactly two kinds: InvalidRequest (bad input, missing
// entities, state conflicts) and Forbidden (caller lacks permission).
// Anything else that reaches the transport is an internal fault.
package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes an engine error.
type Kind string

const (
	KindInternal       Kind = "INTERNAL"
	KindInvalidRequest Kind = "INVALID_REQUEST"
	KindForbidden      Kind = "FORBIDDEN"
)

// Error is a classified engine failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, apperr.ErrForbidden).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrForbidden      = &Error{Kind: KindForbidden}
)

func BadRequest(msg string) error {
	return &Error{Kind: KindInvalidRequest, Message: msg}
}

func BadRequestf(format string, args ...any) error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// KindOf classifies err. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of a classified error,
// or a generic one for internal faults.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// CheckLength fails with InvalidRequest unless min <= len(s) <= max,
// counting characters rather than bytes.
func CheckLength(s string, min, max int) error {
	n := len([]rune(s))
	if n < min || n > max {
		return BadRequestf("string length needs to be between %d and %d inclusive", min, max)
	}
	return nil
}
