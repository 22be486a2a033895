package transaction

import (
	"context"

	"github.com/kbukum/identity/app"
	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/session"
	"github.com/kbukum/identity/token"
	"github.com/kbukum/identity/user"
	"github.com/kbukum/identity/validation"
)

// LoginRequest carries either a session cookie or an ident/password pair,
// and the app the token is for.
type LoginRequest struct {
	Cookie string `json:"cookie,omitempty"`
	Ident  string `json:"ident,omitempty"`
	Pwd    string `json:"pwd,omitempty"`
	App    string `json:"app"`
}

type LoginResponse struct {
	Cookie string `json:"cookie"`
	Token  string `json:"token"`
}

type login struct {
	svc *Service
	req LoginRequest

	sess      *session.Session
	principal *user.User
	app       *app.App
}

// Precondition resolves the cookie, or failing that the credentials, and
// the app. Nothing is created here.
func (tx *login) Precondition(ctx context.Context) error {
	if tx.req.App == "" {
		return apperrors.PreconditionFailed("An app is required.")
	}

	if sess, ok := tx.resume(); ok {
		tx.sess = sess
	} else {
		principal, err := tx.resolve(ctx)
		if err != nil {
			return err
		}
		if err := tx.svc.hasher.Verify(tx.req.Pwd, principal.PasswordHash); err != nil {
			return err
		}
		tx.principal = principal
	}

	a, err := tx.svc.apps.FindByURL(ctx, tx.req.App)
	if err != nil {
		return err
	}
	tx.app = a
	return nil
}

// resume looks the cookie up, if it is shaped like a session id.
func (tx *login) resume() (*session.Session, bool) {
	if !session.ValidSID(tx.req.Cookie, tx.svc.sessions.SIDLength()) {
		return nil, false
	}
	sess, err := tx.svc.sessions.FindBySID(tx.req.Cookie)
	return sess, err == nil
}

// resolve finds the principal by email, then by name.
func (tx *login) resolve(ctx context.Context) (*user.User, error) {
	ident := tx.req.Ident
	if validation.IsEmail(ident) {
		u, err := tx.svc.users.FindByEmail(ctx, ident)
		if err == nil {
			return u, nil
		}
		if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
			return nil, err
		}
	}
	if validation.IsName(ident) {
		u, err := tx.svc.users.FindByName(ctx, ident)
		if err == nil {
			return u, nil
		}
		if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
			return nil, err
		}
	}
	return nil, apperrors.PreconditionFailed("No user matches the given identity.")
}

func (tx *login) Postcondition(ctx context.Context) (*LoginResponse, error) {
	if tx.sess == nil {
		sess, err := tx.svc.sessions.FindOrCreate(ctx, tx.principal, tx.svc.sessionCfg.Timeout)
		if err != nil {
			return nil, err
		}
		tx.sess = sess
	}

	now := tx.svc.now()
	if _, ok := tx.sess.Directory(tx.app.ID); !ok {
		err := tx.sess.SetDirectory(session.Directory{
			AppID:      tx.app.ID,
			UserID:     tx.sess.Principal().ID,
			AssignedAt: now,
		})
		if err != nil && !apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists) {
			return nil, err
		}
	}

	deadline := now.Add(tx.svc.sessionCfg.TokenTTL)
	if d := tx.sess.Deadline(); d.Before(deadline) {
		deadline = d
	}
	signed, err := token.Sign(tx.svc.keys.SigningKey(), tx.sess.Token(tx.app.URL, deadline))
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Cookie: tx.sess.SID(), Token: signed}, nil
}

func (tx *login) Commit(ctx context.Context) error {
	tx.svc.log.WithContext(ctx).Info("Login succeeded", map[string]interface{}{
		logger.FieldSessionID: logger.SessionRef(tx.sess.SID()),
		logger.FieldPrincipal: tx.sess.Principal().Identity(),
		logger.FieldApp:       tx.app.URL,
		"resumed":             tx.principal == nil,
	})
	return nil
}

// Rollback leaves any session in place; it expires on its own.
func (tx *login) Rollback(ctx context.Context) {
	if tx.sess == nil {
		return
	}
	tx.svc.log.WithContext(ctx).Warn("Login failed after session was resolved", map[string]interface{}{
		logger.FieldPrincipal: tx.sess.Principal().Identity(),
	})
}
