package grpc

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/kbukum/identity/transaction"
)

// CookieName is the cookie carrying the session id in "cookie" metadata.
const CookieName = "session"

// Transactions is satisfied by *transaction.Service.
type Transactions interface {
	Login(ctx context.Context, req transaction.LoginRequest) (*transaction.LoginResponse, error)
	Logout(ctx context.Context, cookie string) error
	Signup(ctx context.Context, req transaction.SignupRequest) error
}

// Handler implements SessionServer on top of the transactions.
type Handler struct {
	tx Transactions
}

var _ SessionServer = (*Handler)(nil)

func NewHandler(tx Transactions) *Handler {
	return &Handler{tx: tx}
}

func (h *Handler) Login(ctx context.Context, in *LoginRequest) (*LoginResponse, error) {
	resp, err := h.tx.Login(ctx, transaction.LoginRequest{
		Cookie: cookie(ctx, in.Cookie),
		Ident:  in.Ident,
		Pwd:    in.Pwd,
		App:    in.App,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Cookie: resp.Cookie, Token: resp.Token}, nil
}

func (h *Handler) Logout(ctx context.Context, in *LogoutRequest) (*Empty, error) {
	if err := h.tx.Logout(ctx, cookie(ctx, in.Cookie)); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (h *Handler) Signup(ctx context.Context, in *SignupRequest) (*Empty, error) {
	err := h.tx.Signup(ctx, transaction.SignupRequest{Name: in.Name, Email: in.Email, Pwd: in.Pwd})
	if err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

// cookie returns the session id from the request body, else from an
// "authorization: Bearer <sid>" header, else from the session cookie in
// "cookie" metadata.
func cookie(ctx context.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get("authorization") {
		if sid, ok := strings.CutPrefix(v, "Bearer "); ok {
			return strings.TrimSpace(sid)
		}
	}
	for _, line := range md.Get("cookie") {
		cookies, err := http.ParseCookie(line)
		if err != nil {
			continue
		}
		for _, c := range cookies {
			if c.Name == CookieName {
				return c.Value
			}
		}
	}
	return ""
}
