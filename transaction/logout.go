package transaction

import (
	"context"

	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/session"
)

type logout struct {
	svc    *Service
	cookie string
	sess   *session.Session
}

func (tx *logout) Precondition(context.Context) error {
	if !session.ValidSID(tx.cookie, tx.svc.sessions.SIDLength()) {
		return apperrors.NotFound("session", "")
	}
	sess, err := tx.svc.sessions.FindBySID(tx.cookie)
	if err != nil {
		return err
	}
	tx.sess = sess
	return nil
}

// Postcondition removes the session. Losing a race with another logout of
// the same cookie reports NOT_FOUND.
func (tx *logout) Postcondition(context.Context) (struct{}, error) {
	if !tx.svc.sessions.Remove(tx.sess.SID()) {
		return struct{}{}, apperrors.NotFound("session", "")
	}
	return struct{}{}, nil
}

func (tx *logout) Commit(ctx context.Context) error {
	tx.svc.log.WithContext(ctx).Info("Logout succeeded", map[string]interface{}{
		logger.FieldSessionID: logger.SessionRef(tx.sess.SID()),
		logger.FieldPrincipal: tx.sess.Principal().Identity(),
	})
	return nil
}

func (tx *logout) Rollback(context.Context) {}
