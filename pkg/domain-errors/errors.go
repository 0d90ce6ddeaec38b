// Package dErrors carries error codes from services out to transports.
//
// Stores return sentinel errors (pkg/platform/sentinel); services translate
// them into coded errors here; HTTP and websocket boundaries map codes onto
// statuses and error envelopes without inspecting error strings.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for the transport boundary.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"
)

// Error is a coded domain error. Use New or Wrap; never construct directly.
type Error struct {
	code    Code
	message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message to an underlying cause. The cause stays
// reachable through errors.Is/As chains.
func Wrap(cause error, code Code, message string) *Error {
	return &Error{code: code, message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error { return e.cause }

// Message returns the client-safe description.
func (e *Error) Message() string { return e.message }

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// for errors that never passed through a service translation.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.code == code
	}
	return false
}
