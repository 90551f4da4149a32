package jwt

import "errors"

var (
	// ErrInvalidToken is the only classification callers act on.
	// Every Verify failure matches it; the reasons below are for logs.
	ErrInvalidToken = errors.New("jwt: invalid token")

	ErrMalformedToken   = errors.New("jwt: malformed token")
	ErrInvalidSignature = errors.New("jwt: invalid signature")
	ErrInvalidHeader    = errors.New("jwt: invalid header")
	ErrInvalidClaims    = errors.New("jwt: invalid claims")
	ErrTokenExpired     = errors.New("jwt: token is expired")
	ErrTokenFromFuture  = errors.New("jwt: token issued in the future")

	ErrMissingToken = errors.New("jwt: missing token")
	ErrWeakSecret   = errors.New("jwt: signing secret must be at least 32 bytes")
)
