// Package grpc exposes the identity transactions as the identity.v1.Session
// gRPC service.
//
// Messages are JSON encoded: the codec registered here answers to the
// "json" content subtype, so no generated code is involved. The service
// descriptor, client stub and server component live in this package; the
// interceptor and client sub-packages hold the interceptor chains and the
// client connection factory.
//
//	srv, err := grpc.NewServer(cfg, transactions, log)
//	registry.Register(srv)
package grpc
