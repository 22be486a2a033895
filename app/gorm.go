package app

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/kbukum/identity/database"
	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/metadata"
)

const resource = "app"

// Row is the relational shape of App.
type Row struct {
	ID         int64        `gorm:"primaryKey;autoIncrement"`
	URL        string       `gorm:"size:2048;uniqueIndex;not null"`
	MetadataID int64        `gorm:"not null"`
	Metadata   metadata.Row `gorm:"foreignKey:MetadataID"`
}

func (Row) TableName() string { return "apps" }

// GormRepository stores apps and their metadata in one transaction.
type GormRepository struct {
	db  *database.DB
	log *logger.Logger
}

var _ Repository = (*GormRepository)(nil)

func NewGormRepository(db *database.DB, log *logger.Logger) *GormRepository {
	return &GormRepository{db: db, log: log.WithComponent("app.repository")}
}

func (r *GormRepository) Find(ctx context.Context, id int64) (*App, error) {
	return r.first(ctx, "find", strconv.FormatInt(id, 10), "apps.id = ?", id)
}

func (r *GormRepository) FindByURL(ctx context.Context, url string) (*App, error) {
	return r.first(ctx, "find_by_url", url, "apps.url = ?", url)
}

func (r *GormRepository) first(ctx context.Context, op, key, query string, arg interface{}) (*App, error) {
	var row Row
	if err := r.db.WithContext(ctx).Joins("Metadata").Where(query, arg).First(&row).Error; err != nil {
		return nil, database.FromDatabase(err, r.log, resource, op, key)
	}
	return &App{
		ID:  row.ID,
		URL: row.URL,
		Metadata: metadata.Metadata{
			ID:        row.Metadata.ID,
			CreatedAt: row.Metadata.CreatedAt,
			UpdatedAt: row.Metadata.UpdatedAt,
		},
	}, nil
}

func (r *GormRepository) Create(ctx context.Context, a *App) error {
	if a.ID != 0 {
		return apperrors.AlreadyExists(resource)
	}

	row := Row{URL: a.URL}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meta := metadata.Row{CreatedAt: a.Metadata.CreatedAt, UpdatedAt: a.Metadata.UpdatedAt}
		if err := tx.Create(&meta).Error; err != nil {
			return err
		}
		row.MetadataID = meta.ID
		return tx.Omit("Metadata").Create(&row).Error
	})
	if err != nil {
		return database.FromDatabase(err, r.log, resource, "create", a.URL)
	}

	a.ID = row.ID
	a.Metadata.ID = row.MetadataID
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, a *App) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Row{}, a.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound(resource, a.key())
		}
		return tx.Delete(&metadata.Row{}, a.Metadata.ID).Error
	})
	return database.FromDatabase(err, r.log, resource, "delete", a.key())
}
