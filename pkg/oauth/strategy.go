package oauth

import "context"

// Strategy is the provider specific half of the OAuth flow.
type Strategy interface {
	// Provider returns the provider this strategy talks to.
	Provider() Provider

	// AuthorizationURL builds the consent page URL carrying state.
	AuthorizationURL(state string) string

	// ExchangeCode trades an authorization code for tokens.
	// Codes are single use, so implementations make exactly one attempt.
	ExchangeCode(ctx context.Context, code string) (*Token, error)

	// UserInfo fetches the profile for accessToken, retrying transient failures.
	UserInfo(ctx context.Context, accessToken string) (*UserInfo, error)

	// RefreshToken obtains a new access token from a stored refresh token.
	RefreshToken(ctx context.Context, refreshToken string) (*Token, error)
}

// Token is the provider token set. It is never persisted as is:
// only the refresh token is stored, encrypted.
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	ExpiresIn    int64
}

// UserInfo is the normalized provider profile.
type UserInfo struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}
