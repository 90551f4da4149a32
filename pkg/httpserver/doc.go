// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run binds the listener before returning control to start hooks, so a bad
// address fails fast with ErrStart. It then blocks until the context is
// cancelled or the process receives SIGINT or SIGTERM, and drains in-flight
// requests within the shutdown timeout.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler implement the /healthz and /readyz
// probes. Readiness runs each Check with DefaultCheckTimeout.
package httpserver
