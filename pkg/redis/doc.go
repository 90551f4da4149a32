// Package redis connects to Redis with go-redis and exposes a readiness probe.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	ready := redis.Healthcheck(client)
//
// The client backs the OAuth state store and the directory RPC transport.
package redis
