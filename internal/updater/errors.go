package updater

import (
	"errors"
	"net/http"
)

// Code classifies an update failure.
type Code string

// Failure codes.
const (
	CodeInvalidState   Code = "INVALID_STATE"
	CodeCheckFailed    Code = "CHECK_FAILED"
	CodeNotFound       Code = "NOT_FOUND"
	CodeNoUpdate       Code = "NO_UPDATE"
	CodeApplyFailed    Code = "APPLY_FAILED"
	CodeBackupFailed   Code = "BACKUP_FAILED"
	CodeRollbackFailed Code = "ROLLBACK_FAILED"
	CodeNoBackup       Code = "NO_BACKUP"
	CodeDisabled       Code = "DISABLED"
)

// HTTPStatus is the response status the API uses for c.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeDisabled:
		return http.StatusServiceUnavailable
	case CodeInvalidState, CodeNoUpdate:
		return http.StatusConflict
	case CodeNotFound, CodeNoBackup:
		return http.StatusNotFound
	case CodeCheckFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrDisabled     = &Error{Code: CodeDisabled}
	ErrInvalidState = &Error{Code: CodeInvalidState}
	ErrNoUpdate     = &Error{Code: CodeNoUpdate}
	ErrNoBackup     = &Error{Code: CodeNoBackup}
)

// Error is an update failure.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func fail(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
