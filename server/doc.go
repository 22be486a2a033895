// Package server runs the operational HTTP surface of the identity service:
// health, readiness and liveness probes, build info and runtime metrics.
//
// The session transactions themselves are served over gRPC; this server is
// what load balancers and orchestrators talk to. It is a Gin engine mounted
// on a ServeMux, wrapped in h2c so probes can use HTTP/2 without TLS.
//
// Built-in middleware (server/middleware) runs at the handler level, so it
// covers everything mounted on the mux:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation
//   - RequestLogger: status-aware request logging, probes skipped
package server
