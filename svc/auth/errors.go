package auth

import "errors"

// Coarse failure kinds of the login flow. Handlers map them to HTTP statuses;
// details stay in the logs.
var (
	ErrInvalidProvider        = errors.New("auth: invalid provider")
	ErrInvalidState           = errors.New("auth: invalid or expired state")
	ErrProviderExchangeFailed = errors.New("auth: provider code exchange failed")
	ErrProviderUserInfoFailed = errors.New("auth: provider user info failed")
	ErrDirectoryUnavailable   = errors.New("auth: user directory unavailable")
	ErrTokenPersistenceFailed = errors.New("auth: token persistence failed")

	ErrNoStoredToken         = errors.New("auth: no stored token for provider")
	ErrProviderRefreshFailed = errors.New("auth: provider token refresh failed")
)
