package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with the status and the client-safe message it
// renders as. Err keeps the cause for logs and never reaches the client.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the cause.
func (e HTTPError) Unwrap() error {
	return e.Err
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Message: "unauthorized"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Message: "not found"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Message: "internal server error"}
	ErrBadGateway          = HTTPError{Code: http.StatusBadGateway, Message: "bad gateway"}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Message: "service unavailable"}
)

// NewHTTPError creates an HTTPError. cause may be nil.
func NewHTTPError(code int, message string, cause error) HTTPError {
	return HTTPError{Code: code, Message: message, Err: cause}
}
