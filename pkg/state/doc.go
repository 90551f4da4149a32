// Package state stores single-use anti-forgery tokens for OAuth redirects.
//
// Generate binds a random 256-bit token to a provider name for a limited time
// (10 minutes by default). Consume reads and deletes the token in one atomic
// step, which is what makes a callback impossible to replay: the first caller
// gets the provider back, every later caller gets ok == false.
//
// Two implementations are provided:
//
//   - RedisStore uses SET NX EX and GETDEL, shared across instances.
//   - MemoryStore uses sync.Map.LoadAndDelete, for tests and single-node setups.
//
// Usage:
//
//	store := state.NewRedisStore(client, state.WithTTL(cfg.TTL))
//
//	token, err := store.Generate(ctx, "google")
//	// ... redirect the user with token ...
//	provider, ok, err := store.Consume(ctx, r.URL.Query().Get("state"))
package state
