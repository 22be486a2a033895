// Package client dials the identity gRPC service.
package client

import (
	"fmt"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	identitygrpc "github.com/kbukum/identity/grpc"
	"github.com/kbukum/identity/grpc/interceptor"
	"github.com/kbukum/identity/logger"
)

// New connects to the service at cfg.Address and returns a session client
// together with the connection, which the caller closes.
func New(cfg identitygrpc.Config, log *logger.Logger) (*identitygrpc.SessionClient, *grpc.ClientConn, error) {
	cfg.ApplyDefaults()
	target := cfg.Address()

	opts, err := DialOptions(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("grpc: failed to create client for %s: %w", target, err)
	}

	log.Debug("gRPC client created", map[string]interface{}{
		"target": target,
		"tls":    cfg.TLS.Enabled,
	})
	return identitygrpc.NewSessionClient(conn), conn, nil
}

// DialOptions assembles credentials, keepalive, message size limits,
// tracing and the timeout, request id and logging interceptors.
func DialOptions(cfg identitygrpc.Config, log *logger.Logger) ([]grpc.DialOption, error) {
	creds, err := transportCredentials(cfg.TLS)
	if err != nil {
		return nil, err
	}
	log = log.WithComponent("grpc.client")

	return []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:    cfg.Keepalive.Time,
			Timeout: cfg.Keepalive.Timeout,
		}),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize),
			grpc.MaxCallSendMsgSize(cfg.MaxSendMsgSize),
		),
		grpc.WithChainUnaryInterceptor(
			interceptor.UnaryClientTimeout(cfg.Timeout),
			interceptor.UnaryClientRequestID(),
			interceptor.UnaryClientLogging(log),
		),
	}, nil
}

func transportCredentials(cfg identitygrpc.TLSConfig) (credentials.TransportCredentials, error) {
	if !cfg.Enabled {
		return insecure.NewCredentials(), nil
	}
	tc, err := cfg.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("grpc: client TLS: %w", err)
	}
	return credentials.NewTLS(tc), nil
}
