// Package observability sets up OpenTelemetry tracing and metrics for the
// identity service.
//
// Traces and metrics are exported over OTLP/HTTP. When telemetry is
// disabled the global no-op providers stay in place, so instruments and
// spans can be used unconditionally.
package observability
