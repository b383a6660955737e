package api

import (
	"net/http"

	"github.com/jimyag/viommu/internal/viommu/core"
	"github.com/jimyag/viommu/internal/viommu/wire"
)

// httpError is the debug API's JSON error body: an HTTP status plus a
// message, nothing more. The wire protocol's error vocabulary is already
// wire.Status, so the API maps that byte directly to an HTTP status
// instead of inventing a second, parallel code space.
type httpError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *httpError) Error() string { return e.Message }

func newHTTPError(status int, message string) *httpError {
	return &httpError{Status: status, Message: message}
}

var (
	errDomainNotFound   = newHTTPError(http.StatusNotFound, "domain does not exist")
	errEndpointNotFound = newHTTPError(http.StatusNotFound, "endpoint does not exist")
)

// httpStatusFor maps a core.StatusError's wire.Status to the HTTP status
// this JSON-only introspection surface reports it under.
func httpStatusFor(err error) int {
	switch core.StatusOf(err) {
	case wire.StatusOK:
		return http.StatusOK
	case wire.StatusNoent:
		return http.StatusNotFound
	case wire.StatusInval:
		return http.StatusBadRequest
	case wire.StatusRange:
		return http.StatusConflict
	case wire.StatusUnsupp:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
