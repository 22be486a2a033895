package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/identity/database/testutil"
	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
)

func newRepo(t *testing.T) *GormRepository {
	t.Helper()
	return NewGormRepository(testutil.NewDB(t, &Row{}), logger.Nop())
}

func TestNewAndTouch(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := New(now)
	if !m.IsTransient() {
		t.Error("new metadata must be transient")
	}
	if !m.CreatedAt.Equal(now) || !m.UpdatedAt.Equal(now) {
		t.Errorf("unexpected timestamps: %+v", m)
	}

	later := now.Add(time.Minute)
	m.Touch(later)
	if !m.UpdatedAt.Equal(later) || !m.CreatedAt.Equal(now) {
		t.Errorf("touch must only move updated_at: %+v", m)
	}
}

func TestGormRepository_CRUD(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	m := New(now)
	if err := repo.Create(ctx, &m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == 0 {
		t.Fatal("Create must assign an id")
	}

	m.Touch(now.Add(time.Hour))
	if err := repo.Save(ctx, &m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Find(ctx, m.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !got.UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expected updated_at to be saved, got %v", got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected created_at to be kept, got %v", got.CreatedAt)
	}

	if err := repo.Delete(ctx, &m); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Find(ctx, m.ID); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND after delete, got %v", err)
	}
}

func TestGormRepository_CreatePersisted(t *testing.T) {
	repo := newRepo(t)
	m := Metadata{ID: 7}
	if err := repo.Create(context.Background(), &m); !apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
}

func TestGormRepository_SaveDeleteMissing(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	m := Metadata{ID: 404, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	if err := repo.Save(ctx, &m); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("Save: expected NOT_FOUND, got %v", err)
	}
	if err := repo.Delete(ctx, &m); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("Delete: expected NOT_FOUND, got %v", err)
	}
}
