package auth

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// DefaultDirectoryTimeout bounds a single directory lookup.
const DefaultDirectoryTimeout = 5 * time.Second

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDirectoryTimeout bounds each GetOrCreateUser call.
func WithDirectoryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.directoryTimeout = d
		}
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}
