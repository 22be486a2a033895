package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	"github.com/kbukum/identity/component"
	"github.com/kbukum/identity/grpc/interceptor"
	"github.com/kbukum/identity/logger"
)

// Server hosts identity.v1.Session and the standard health service.
type Server struct {
	cfg    Config
	server *gogrpc.Server
	health *health.Server
	log    *logger.Logger

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
}

var _ component.Component = (*Server)(nil)

// NewServer builds the server with the interceptor chain
// request id, logging, recovery, error mapping, timeout.
func NewServer(cfg Config, tx Transactions, log *logger.Logger) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = log.WithComponent("grpc")

	opts := []gogrpc.ServerOption{
		gogrpc.StatsHandler(otelgrpc.NewServerHandler()),
		gogrpc.ChainUnaryInterceptor(
			interceptor.UnaryServerRequestID(),
			interceptor.UnaryServerLogging(log),
			interceptor.UnaryServerRecovery(log),
			interceptor.UnaryServerErrors(ToStatus),
			interceptor.UnaryServerTimeout(cfg.Timeout),
		),
		gogrpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		gogrpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		gogrpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    cfg.Keepalive.Time,
			Timeout: cfg.Keepalive.Timeout,
		}),
	}
	if cfg.TLS.Enabled {
		tc, err := cfg.TLS.ServerConfig()
		if err != nil {
			return nil, fmt.Errorf("grpc: %w", err)
		}
		opts = append(opts, gogrpc.Creds(credentials.NewTLS(tc)))
	}

	s := &Server{
		cfg:    cfg,
		server: gogrpc.NewServer(opts...),
		health: health.NewServer(),
		log:    log,
	}
	RegisterSessionServer(s.server, NewHandler(tx))
	healthpb.RegisterHealthServer(s.server, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return s, nil
}

func (s *Server) Name() string { return "grpc" }

// Start binds the configured address and serves in the background.
func (s *Server) Start(context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("grpc: listen on %s: %w", s.cfg.Address(), err)
	}
	s.Serve(lis)
	return nil
}

// Serve serves on lis in the background.
func (s *Server) Serve(lis net.Listener) {
	s.mu.Lock()
	s.listener = lis
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.log.Info("gRPC server listening", map[string]interface{}{"addr": lis.Addr().String()})

	go func() {
		defer close(done)
		if err := s.server.Serve(lis); err != nil {
			s.log.Error("gRPC server stopped", map[string]interface{}{logger.FieldError: err.Error()})
		}
	}()
}

// Stop drains in-flight calls, forcing the shutdown after
// ShutdownTimeout or when ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}

	s.health.Shutdown()
	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	timer := time.NewTimer(s.cfg.ShutdownTimeout)
	defer timer.Stop()
	select {
	case <-stopped:
	case <-timer.C:
		s.log.Warn("gRPC graceful stop timed out, forcing")
		s.server.Stop()
	case <-ctx.Done():
		s.server.Stop()
	}
	<-done
	return nil
}

func (s *Server) Health(context.Context) component.Health {
	s.mu.Lock()
	running := s.done != nil
	s.mu.Unlock()
	if !running {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not serving"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}
