// Package jwt mints and verifies session credentials and guards HTTP routes
// with them.
//
// Credentials are compact HS256 JWTs carrying sub, email, iat and exp.
// Issuer.Verify accepts only the fixed header, requires every claim to be
// present and well typed, rejects expired tokens and tokens issued further in
// the future than the configured clock skew. Any failure matches
// ErrInvalidToken.
//
//	issuer, err := jwt.NewIssuer(secret, jwt.WithLifetime(time.Hour))
//	token, claims, err := issuer.Sign(user.ExternalID, user.Email)
//
//	r.With(jwt.Guard(jwt.GuardConfig{Issuer: issuer})).Get("/me", func(w http.ResponseWriter, r *http.Request) {
//		claims, _ := jwt.ClaimsFromContext(r.Context())
//		...
//	})
package jwt
