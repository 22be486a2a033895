package interceptor

import (
	"context"
	"fmt"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kbukum/identity/logger"
)

// UnaryServerRecovery turns a handler panic into an Internal status.
func UnaryServerRecovery(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithContext(ctx).Error("Panic recovered", map[string]interface{}{
					"method":          info.FullMethod,
					logger.FieldError: fmt.Sprint(r),
					"stack":           string(debug.Stack()),
				})
				resp, err = nil, status.Error(codes.Internal, "An unexpected error occurred. Please try again or contact support.")
			}
		}()
		return handler(ctx, req)
	}
}
