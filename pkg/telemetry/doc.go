// Package telemetry wires OpenTelemetry tracing for the binaries.
//
// Tracing is opt-in: Setup does nothing until OTEL_EXPORTER_OTLP_ENDPOINT is
// set. Defer the returned shutdown so buffered spans are flushed on exit.
package telemetry
