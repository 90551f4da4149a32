package auth

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/oauthgate/handler"
	authsvc "github.com/dmitrymomot/oauthgate/svc/auth"
)

var errMissingCallbackParams = handler.NewHTTPError(http.StatusBadRequest, "code and state are required", nil)

// httpError maps service errors to the status and generic message the client
// sees. The cause stays attached for the error handler's log line.
func httpError(err error) error {
	switch {
	case errors.Is(err, authsvc.ErrInvalidProvider):
		return handler.NewHTTPError(http.StatusBadRequest, "unsupported provider", err)
	case errors.Is(err, authsvc.ErrInvalidState),
		errors.Is(err, authsvc.ErrProviderExchangeFailed),
		errors.Is(err, authsvc.ErrProviderUserInfoFailed):
		return handler.NewHTTPError(http.StatusUnauthorized, "authentication failed", err)
	case errors.Is(err, authsvc.ErrNoStoredToken):
		return handler.NewHTTPError(http.StatusNotFound, "no provider grant for this session", err)
	case errors.Is(err, authsvc.ErrProviderRefreshFailed):
		return handler.NewHTTPError(http.StatusBadGateway, "provider refresh failed", err)
	default:
		return handler.NewHTTPError(http.StatusInternalServerError, "internal server error", err)
	}
}
