package interceptor

import (
	"context"

	"google.golang.org/grpc"
)

// UnaryServerErrors converts handler errors with convert, typically
// grpc.ToStatus, so that only status errors leave the server.
func UnaryServerErrors(convert func(error) error) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, convert(err)
		}
		return resp, nil
	}
}
