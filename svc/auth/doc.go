// Package auth orchestrates the OAuth login flow.
//
// Login mints a single-use state bound to the provider and returns the
// provider consent URL. Callback consumes that state, exchanges the code,
// fetches the profile, resolves the canonical user through the directory and
// stores the provider refresh token encrypted, one row per user and provider.
// The returned Identity is what the caller signs into a session.
//
// Callback errors are coarse kinds (ErrInvalidState, ErrProviderExchangeFailed
// and so on) that carry no upstream detail. The detail is logged with the
// provider and the failing step, and recorded on the step span.
package auth
