// Package halerr defines the typed errors returned by the routing core.
package halerr

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the class of a routing failure.
type ErrorCode string

// ErrorCode constants for routing errors.
const (
	ErrParameter    ErrorCode = "PARAMETER"     // null/invalid argument, too many devices, empty device list
	ErrResource     ErrorCode = "RESOURCE"      // transport open/close failure
	ErrIoctl        ErrorCode = "IOCTL"         // hardware parameter negotiation failure
	ErrInvalidState ErrorCode = "INVALID_STATE" // illegal transition or unknown command
	ErrInternal     ErrorCode = "INTERNAL"
)

// Error is a routing core error carrying a code and an optional cause.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// New creates an error with the given code.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error with the given code and cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Parameter creates a PARAMETER error.
func Parameter(format string, args ...any) *Error {
	return New(ErrParameter, fmt.Sprintf(format, args...))
}

// InvalidState creates an INVALID_STATE error.
func InvalidState(format string, args ...any) *Error {
	return New(ErrInvalidState, fmt.Sprintf(format, args...))
}

// Resource creates a RESOURCE error wrapping cause.
func Resource(message string, cause error) *Error {
	return Wrap(ErrResource, message, cause)
}

// Ioctl creates an IOCTL error wrapping cause.
func Ioctl(message string, cause error) *Error {
	return Wrap(ErrIoctl, message, cause)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HasCode checks if the error matches a specific code.
func (e *Error) HasCode(code ErrorCode) bool {
	return e.Code == code
}

// CodeOf returns the code of the first *Error in err's chain, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var he *Error
	if errors.As(err, &he) {
		return he.Code
	}
	return ErrInternal
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	var he *Error
	if errors.As(err, &he) {
		return he.HasCode(code)
	}
	return false
}
