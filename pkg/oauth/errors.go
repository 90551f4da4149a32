package oauth

import "errors"

var (
	ErrUnsupportedProvider = errors.New("oauth: unsupported provider")
	ErrInvalidConfig       = errors.New("oauth: invalid configuration")

	ErrExchangeFailed      = errors.New("oauth: code exchange failed")
	ErrMissingRefreshToken = errors.New("oauth: provider did not return a refresh token")
	ErrUserInfoFailed      = errors.New("oauth: user info request failed")
	ErrNoEmail             = errors.New("oauth: provider profile has no email")
	ErrRefreshFailed       = errors.New("oauth: token refresh failed")
)
