package metadata

import (
	"context"
	"strconv"
	"time"

	"github.com/kbukum/identity/database"
	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
)

const resource = "metadata"

// Row is the relational shape of Metadata.
type Row struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null"`
}

func (Row) TableName() string { return "metadata" }

// GormRepository stores Metadata in the relational database.
type GormRepository struct {
	db  *database.DB
	log *logger.Logger
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository creates a metadata repository backed by db.
func NewGormRepository(db *database.DB, log *logger.Logger) *GormRepository {
	return &GormRepository{db: db, log: log.WithComponent("metadata.repository")}
}

func (r *GormRepository) Find(ctx context.Context, id int64) (*Metadata, error) {
	var row Row
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, database.FromDatabase(err, r.log, resource, "find", strconv.FormatInt(id, 10))
	}
	return &Metadata{ID: row.ID, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt}, nil
}

func (r *GormRepository) Create(ctx context.Context, m *Metadata) error {
	if !m.IsTransient() {
		return apperrors.AlreadyExists(resource)
	}
	row := Row{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return database.FromDatabase(err, r.log, resource, "create", "")
	}
	m.ID = row.ID
	return nil
}

func (r *GormRepository) Save(ctx context.Context, m *Metadata) error {
	key := strconv.FormatInt(m.ID, 10)
	if m.IsTransient() {
		return apperrors.NotFound(resource, key)
	}
	res := r.db.WithContext(ctx).Model(&Row{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"created_at": m.CreatedAt,
		"updated_at": m.UpdatedAt,
	})
	if res.Error != nil {
		return database.FromDatabase(res.Error, r.log, resource, "save", key)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(resource, key)
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, m *Metadata) error {
	key := strconv.FormatInt(m.ID, 10)
	res := r.db.WithContext(ctx).Delete(&Row{}, m.ID)
	if res.Error != nil {
		return database.FromDatabase(res.Error, r.log, resource, "delete", key)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(resource, key)
	}
	return nil
}
