// Package interceptor holds the unary interceptors of the identity gRPC
// server and client.
package interceptor
