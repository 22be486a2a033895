package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
)

// ServiceName is the fully qualified name of the session service.
const ServiceName = "identity.v1.Session"

const (
	LoginMethod  = "/" + ServiceName + "/Login"
	LogoutMethod = "/" + ServiceName + "/Logout"
	SignupMethod = "/" + ServiceName + "/Signup"
)

type LoginRequest struct {
	Ident  string `json:"ident,omitempty"`
	Pwd    string `json:"pwd,omitempty"`
	App    string `json:"app"`
	Cookie string `json:"cookie,omitempty"`
}

type LoginResponse struct {
	Cookie string `json:"cookie"`
	Token  string `json:"token"`
}

type LogoutRequest struct {
	Cookie string `json:"cookie,omitempty"`
}

type SignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Pwd   string `json:"pwd"`
}

type Empty struct{}

// SessionServer is the server API of identity.v1.Session.
type SessionServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Logout(context.Context, *LogoutRequest) (*Empty, error)
	Signup(context.Context, *SignupRequest) (*Empty, error)
}

// SessionServiceDesc describes identity.v1.Session for grpc.Server.RegisterService.
var SessionServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "Login", Handler: unaryHandler(LoginMethod, SessionServer.Login)},
		{MethodName: "Logout", Handler: unaryHandler(LogoutMethod, SessionServer.Logout)},
		{MethodName: "Signup", Handler: unaryHandler(SignupMethod, SessionServer.Signup)},
	},
	Streams: []gogrpc.StreamDesc{},
}

// RegisterSessionServer registers impl on s.
func RegisterSessionServer(s gogrpc.ServiceRegistrar, impl SessionServer) {
	s.RegisterService(&SessionServiceDesc, impl)
}

// unaryHandler adapts a SessionServer method expression to a grpc method
// handler, decoding the request with the negotiated codec.
func unaryHandler[Req, Resp any](fullMethod string, call func(SessionServer, context.Context, *Req) (*Resp, error)) gogrpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor gogrpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SessionServer), ctx, in)
		}
		info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SessionServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SessionClient calls identity.v1.Session with the JSON codec.
type SessionClient struct {
	cc gogrpc.ClientConnInterface
}

func NewSessionClient(cc gogrpc.ClientConnInterface) *SessionClient {
	return &SessionClient{cc: cc}
}

func (c *SessionClient) Login(ctx context.Context, in *LoginRequest, opts ...gogrpc.CallOption) (*LoginResponse, error) {
	out := new(LoginResponse)
	if err := c.invoke(ctx, LoginMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionClient) Logout(ctx context.Context, in *LogoutRequest, opts ...gogrpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, LogoutMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionClient) Signup(ctx context.Context, in *SignupRequest, opts ...gogrpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, SignupMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionClient) invoke(ctx context.Context, method string, in, out interface{}, opts []gogrpc.CallOption) error {
	opts = append([]gogrpc.CallOption{gogrpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
