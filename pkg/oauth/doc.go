// Package oauth implements the provider side of the OAuth 2.0 authorization
// code flow.
//
// Providers form a closed enumeration. Both the name table and the
// constructor table are fixed-length arrays indexed by Provider, and the
// package asserts at compile time that their lengths match the enumeration,
// so declaring a provider without wiring it breaks the build.
//
// A Strategy covers four calls:
//
//   - AuthorizationURL builds the consent URL (offline access, forced consent).
//   - ExchangeCode redeems the authorization code once. It is never retried:
//     codes are single use and a second attempt would hit the provider with a
//     consumed code.
//   - UserInfo fetches the profile with up to five attempts and exponential
//     backoff (300ms, doubling, capped at 2s). Non-retryable 4xx answers stop
//     immediately.
//   - RefreshToken trades a stored refresh token for a new access token.
//
// Upstream details are logged and wrapped; callers match on the package
// sentinels (ErrExchangeFailed, ErrUserInfoFailed, ...) with errors.Is.
package oauth
