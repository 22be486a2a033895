package user

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/kbukum/identity/database"
	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/metadata"
)

const resource = "user"

// Row is the relational shape of User.
type Row struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:32;uniqueIndex;not null"`
	Email        string `gorm:"size:254;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	SecretID     int64
	MetadataID   int64        `gorm:"not null"`
	Metadata     metadata.Row `gorm:"foreignKey:MetadataID"`
}

func (Row) TableName() string { return "users" }

func (r *Row) toDomain() *User {
	return &User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		SecretID:     r.SecretID,
		Metadata: metadata.Metadata{
			ID:        r.Metadata.ID,
			CreatedAt: r.Metadata.CreatedAt,
			UpdatedAt: r.Metadata.UpdatedAt,
		},
	}
}

// GormRepository stores users and their metadata in one relational database,
// so a user and its metadata are written in a single transaction.
type GormRepository struct {
	db  *database.DB
	log *logger.Logger
}

var _ Repository = (*GormRepository)(nil)

func NewGormRepository(db *database.DB, log *logger.Logger) *GormRepository {
	return &GormRepository{db: db, log: log.WithComponent("user.repository")}
}

func (r *GormRepository) Find(ctx context.Context, id int64) (*User, error) {
	return r.first(ctx, "find", strconv.FormatInt(id, 10), "users.id = ?", id)
}

func (r *GormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "find_by_email", email, "users.email = ?", email)
}

func (r *GormRepository) FindByName(ctx context.Context, name string) (*User, error) {
	return r.first(ctx, "find_by_name", name, "users.name = ?", name)
}

func (r *GormRepository) first(ctx context.Context, op, key, query string, arg interface{}) (*User, error) {
	var row Row
	err := r.db.WithContext(ctx).Joins("Metadata").Where(query, arg).First(&row).Error
	if err != nil {
		return nil, database.FromDatabase(err, r.log, resource, op, key)
	}
	return row.toDomain(), nil
}

func (r *GormRepository) Create(ctx context.Context, u *User) error {
	if u.ID != 0 {
		return apperrors.AlreadyExists(resource)
	}

	row := Row{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		SecretID:     u.SecretID,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meta := metadata.Row{CreatedAt: u.Metadata.CreatedAt, UpdatedAt: u.Metadata.UpdatedAt}
		if err := tx.Create(&meta).Error; err != nil {
			return err
		}
		row.MetadataID = meta.ID
		return tx.Omit("Metadata").Create(&row).Error
	})
	if err != nil {
		return database.FromDatabase(err, r.log, resource, "create", u.Email)
	}

	u.ID = row.ID
	u.Metadata.ID = row.MetadataID
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, u *User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Row{}, u.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound(resource, u.Key())
		}
		return tx.Delete(&metadata.Row{}, u.Metadata.ID).Error
	})
	return database.FromDatabase(err, r.log, resource, "delete", u.Key())
}
