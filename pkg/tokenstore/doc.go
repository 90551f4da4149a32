// Package tokenstore persists encrypted provider refresh tokens, one row per
// owner and provider.
//
// Secrets arrive already encrypted (see package secrets); the repository never
// sees plaintext. The interface has no upsert: GetToken,
// CreateToken and UpdateToken are separate so the caller decides, from a fresh
// read, whether a row is created or refreshed.
package tokenstore
