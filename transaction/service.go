package transaction

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/identity/app"
	"github.com/kbukum/identity/auth/password"
	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/notify"
	"github.com/kbukum/identity/observability"
	"github.com/kbukum/identity/secret"
	"github.com/kbukum/identity/session"
	"github.com/kbukum/identity/token"
	"github.com/kbukum/identity/user"
)

// SecretStore is the part of secret.Manager signup needs.
type SecretStore interface {
	Insert(ctx context.Context, s *secret.Secret) error
	Delete(ctx context.Context, s *secret.Secret) error
}

// Recorder receives one sample per finished transaction.
type Recorder interface {
	RecordTransaction(ctx context.Context, op, status string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordTransaction(context.Context, string, string, time.Duration) {}

// Deps are the collaborators of a Service. Metrics may be nil.
type Deps struct {
	Sessions *session.Registry
	Users    user.Repository
	Apps     app.Repository
	Secrets  SecretStore
	Hasher   password.Hasher
	Keys     token.KeyProvider
	Notifier notify.Notifier
	Metrics  Recorder

	Session session.Config
	Signup  Config
}

// Service runs transactions against its dependencies.
type Service struct {
	sessions *session.Registry
	users    user.Repository
	apps     app.Repository
	secrets  SecretStore
	hasher   password.Hasher
	keys     token.KeyProvider
	notifier notify.Notifier
	metrics  Recorder

	sessionCfg session.Config
	signupCfg  Config

	log *logger.Logger
	now func() time.Time
}

func NewService(d Deps, log *logger.Logger) *Service {
	d.Session.ApplyDefaults()
	d.Signup.ApplyDefaults()
	metrics := d.Metrics
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Service{
		sessions:   d.Sessions,
		users:      d.Users,
		apps:       d.Apps,
		secrets:    d.Secrets,
		hasher:     d.Hasher,
		keys:       d.Keys,
		notifier:   d.Notifier,
		metrics:    metrics,
		sessionCfg: d.Session,
		signupCfg:  d.Signup,
		log:        log.WithComponent("transaction"),
		now:        time.Now,
	}
}

// Login authenticates by cookie or by credentials and returns the session
// cookie with a token for req.App.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	return run[*LoginResponse](ctx, s, "login", &login{svc: s, req: req},
		attribute.String(observability.AttrApp, req.App))
}

// Logout destroys the session named by cookie.
func (s *Service) Logout(ctx context.Context, cookie string) error {
	_, err := run[struct{}](ctx, s, "logout", &logout{svc: s, cookie: cookie})
	return err
}

// Signup registers a new user and sends them a verification token.
func (s *Service) Signup(ctx context.Context, req SignupRequest) error {
	_, err := run[struct{}](ctx, s, "signup", &signup{svc: s, req: req},
		attribute.String(observability.AttrPrincipal, req.Email))
	return err
}

func run[R any](ctx context.Context, s *Service, op string, tx Transaction[R], attrs ...attribute.KeyValue) (R, error) {
	start := time.Now()
	attrs = append(attrs, attribute.String(observability.AttrOperation, op))
	ctx, span := observability.StartSpan(ctx, "identity."+op, attrs...)

	res, err := Execute(ctx, tx)

	status := "ok"
	if err != nil {
		appErr := apperrors.From(err)
		status = string(appErr.Code)
		err = appErr
	}
	elapsed := time.Since(start)
	span.SetAttributes(attribute.String(observability.AttrStatus, status))
	observability.EndSpan(span, err)
	s.metrics.RecordTransaction(ctx, op, status, elapsed)

	fields := map[string]interface{}{
		logger.FieldOperation: op,
		logger.FieldStatus:    status,
		logger.FieldDuration:  elapsed.Milliseconds(),
	}
	log := s.log.WithContext(ctx)
	if err != nil && status == string(apperrors.ErrCodeUnknown) {
		fields[logger.FieldError] = err.Error()
		log.Error("Transaction failed", fields)
	} else {
		log.Debug("Transaction finished", fields)
	}
	return res, err
}
