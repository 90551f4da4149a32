// Package directory implements the user directory behind
// pkg/directory.Client: one canonical user per normalized email, identified
// by a UUID external id.
//
// Stores are pluggable. PostgresUserStore backs production and
// MemoryUserStore backs tests and local runs. The service is usually served
// to the auth flow over Redis with pkg/directory/redisrpc.
package directory
