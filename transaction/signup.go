package transaction

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"

	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/notify"
	"github.com/kbukum/identity/secret"
	"github.com/kbukum/identity/token"
	"github.com/kbukum/identity/user"
	"github.com/kbukum/identity/validation"
)

type SignupRequest struct {
	Name  string `json:"name" validate:"required,identname"`
	Email string `json:"email" validate:"required,email,max=254"`
	Pwd   string `json:"pwd" validate:"required"`
}

type signup struct {
	svc *Service
	req SignupRequest

	secret       *secret.Secret
	user         *user.User
	verification notify.Verification
}

func (tx *signup) Precondition(ctx context.Context) error {
	if err := validation.Validate(tx.req); err != nil {
		return err
	}
	if err := tx.available(tx.svc.users.FindByEmail(ctx, tx.req.Email)); err != nil {
		return err
	}
	return tx.available(tx.svc.users.FindByName(ctx, tx.req.Name))
}

func (tx *signup) available(_ *user.User, err error) error {
	switch {
	case err == nil:
		return apperrors.AlreadyExists("user")
	case apperrors.IsCode(err, apperrors.ErrCodeNotFound):
		return nil
	default:
		return err
	}
}

// Postcondition stores the user's signing key as a Secret, then the user,
// and signs the verification token.
func (tx *signup) Postcondition(ctx context.Context) (struct{}, error) {
	var none struct{}
	now := tx.svc.now()

	hash, err := tx.svc.hasher.Hash(tx.req.Pwd)
	if err != nil {
		return none, err
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return none, apperrors.Unknown(err)
	}
	pem, err := token.EncodePrivateKeyPEM(key)
	if err != nil {
		return none, apperrors.Unknown(err)
	}
	s := secret.New(pem, now)
	if err := tx.svc.secrets.Insert(ctx, s); err != nil {
		return none, err
	}
	tx.secret = s

	u := user.New(tx.req.Name, tx.req.Email, hash, now)
	u.SecretID = s.ID
	if err := tx.svc.users.Create(ctx, u); err != nil {
		return none, err
	}
	tx.user = u

	claims, err := token.NewVerificationToken(u.Email, hash, now, tx.svc.signupCfg.VerificationTTL)
	if err != nil {
		return none, apperrors.Unknown(err)
	}
	signed, err := token.Sign(tx.svc.keys.SigningKey(), claims)
	if err != nil {
		return none, err
	}
	tx.verification = notify.Verification{
		Email:     u.Email,
		Name:      u.Name,
		Token:     signed,
		ExpiresAt: claims.Deadline(),
	}
	return none, nil
}

func (tx *signup) Commit(ctx context.Context) error {
	if err := tx.svc.notifier.NotifyVerification(ctx, tx.verification); err != nil {
		return apperrors.Unknown(err)
	}
	tx.svc.log.WithContext(ctx).Info("Signup succeeded", map[string]interface{}{
		logger.FieldEmail: tx.user.Email,
	})
	return nil
}

// Rollback deletes the user and then the secret, whichever were stored.
func (tx *signup) Rollback(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	log := tx.svc.log.WithContext(ctx)
	if tx.user != nil {
		if err := tx.svc.users.Delete(ctx, tx.user); err != nil {
			log.Error("Signup rollback could not delete user", map[string]interface{}{
				logger.FieldEmail: tx.user.Email,
				logger.FieldError: err.Error(),
			})
		}
	}
	if tx.secret != nil {
		if err := tx.svc.secrets.Delete(ctx, tx.secret); err != nil {
			log.Error("Signup rollback could not delete secret", map[string]interface{}{
				logger.FieldKey:   tx.secret.ID,
				logger.FieldError: err.Error(),
			})
		}
	}
}
