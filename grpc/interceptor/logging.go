package interceptor

import (
	"context"
	"path"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kbukum/identity/logger"
)

// UnaryServerLogging logs every call with its method, duration and status
// code. Client errors are logged at warn level, server errors at error.
func UnaryServerLogging(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		st := status.Convert(err)
		fields := map[string]interface{}{
			"method":             path.Base(info.FullMethod),
			logger.FieldStatus:   st.Code().String(),
			logger.FieldDuration: time.Since(start).Milliseconds(),
		}
		l := log.WithContext(ctx)
		switch st.Code() {
		case codes.OK:
			l.Info("gRPC request handled", fields)
		case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
			fields[logger.FieldError] = st.Message()
			l.Error("gRPC request failed", fields)
		default:
			fields[logger.FieldError] = st.Message()
			l.Warn("gRPC request rejected", fields)
		}
		return resp, err
	}
}

// UnaryClientLogging logs each outgoing call with method, duration, and
// status.
func UnaryClientLogging(log *logger.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)

		fields := map[string]interface{}{
			"method":             path.Base(method),
			"target":             cc.Target(),
			logger.FieldDuration: time.Since(start).Milliseconds(),
		}
		if err != nil {
			st := status.Convert(err)
			fields[logger.FieldStatus] = st.Code().String()
			fields[logger.FieldError] = st.Message()
			log.WithContext(ctx).Warn("gRPC call failed", fields)
		} else {
			fields[logger.FieldStatus] = "OK"
			log.WithContext(ctx).Debug("gRPC call completed", fields)
		}
		return err
	}
}
