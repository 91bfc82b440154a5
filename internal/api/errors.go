package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audiohal/internal/halerr"
)

// statusFor maps a routing error code to an HTTP status.
func statusFor(code halerr.ErrorCode) int {
	switch code {
	case halerr.ErrParameter:
		return http.StatusBadRequest
	case halerr.ErrInvalidState:
		return http.StatusConflict
	case halerr.ErrResource, halerr.ErrIoctl:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// toHTTPError converts a routing core error into a huma error. The error
// code is exposed as the problem detail so clients can branch on it.
func toHTTPError(msg string, err error) error {
	code := halerr.CodeOf(err)
	return huma.NewError(statusFor(code), msg+": "+string(code), err)
}
