package secret

import (
	"context"
	"time"

	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/metadata"
)

// Manager persists a Secret together with its embedded Metadata.
//
// Insert and Save write metadata first, then the secret. Delete removes the
// secret first, then its metadata. No compensation is attempted when the
// second write fails: the orphaned half is logged at error level with both
// ids and the caller receives UNKNOWN.
type Manager struct {
	secrets Repository
	metas   metadata.Repository
	log     *logger.Logger
	now     func() time.Time
}

func NewManager(secrets Repository, metas metadata.Repository, log *logger.Logger) *Manager {
	return &Manager{
		secrets: secrets,
		metas:   metas,
		log:     log.WithComponent("secret.manager"),
		now:     time.Now,
	}
}

// Find loads the secret and then its metadata.
func (m *Manager) Find(ctx context.Context, id int64) (*Secret, error) {
	s, err := m.secrets.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	meta, err := m.metas.Find(ctx, s.Metadata.ID)
	if err != nil {
		return nil, err
	}
	s.Metadata = *meta
	return s, nil
}

func (m *Manager) Insert(ctx context.Context, s *Secret) error {
	if !s.IsTransient() {
		return apperrors.AlreadyExists(resource)
	}
	if err := m.metas.Create(ctx, &s.Metadata); err != nil {
		return err
	}
	if err := m.secrets.Create(ctx, s); err != nil {
		m.orphan("insert", s, err)
		return apperrors.Unknown(err)
	}
	return nil
}

// Save touches the metadata and persists it, then the secret payload.
func (m *Manager) Save(ctx context.Context, s *Secret) error {
	s.Metadata.Touch(m.now())
	if err := m.metas.Save(ctx, &s.Metadata); err != nil {
		return err
	}
	return m.secrets.Save(ctx, s)
}

func (m *Manager) Delete(ctx context.Context, s *Secret) error {
	if err := m.secrets.Delete(ctx, s); err != nil {
		return err
	}
	if err := m.metas.Delete(ctx, &s.Metadata); err != nil {
		m.orphan("delete", s, err)
		return apperrors.Unknown(err)
	}
	return nil
}

func (m *Manager) orphan(op string, s *Secret, err error) {
	m.log.Error("Secret cascade left orphaned metadata", map[string]interface{}{
		logger.FieldOperation: op,
		"secret_id":           s.ID,
		"metadata_id":         s.Metadata.ID,
		logger.FieldError:     err.Error(),
	})
}
