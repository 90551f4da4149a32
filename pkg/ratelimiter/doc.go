// Package ratelimiter throttles requests with a token bucket.
//
// A Bucket allows bursts up to Capacity and refills RefillRate tokens every
// RefillInterval. State lives in a Store: MemoryStore for a single process,
// RedisStore to share limits across instances (refill and consume run in one
// Lua script).
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(rdb), cfg)
//	if err != nil {
//		return err
//	}
//	r.With(ratelimiter.Middleware(limiter,
//		ratelimiter.Composite(ratelimiter.Prefix("login"), ratelimiter.ClientIP()),
//		log,
//	)).Get("/auth/login/{provider}", h)
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset, plus Retry-After on a 429. Denied requests consume
// nothing.
//
// ClientIP keys by the TCP peer. Behind a load balancer use TrustedClientIP
// with the proxy prefixes from Config.TrustedProxies; forwarding headers from
// any other peer are ignored.
package ratelimiter
