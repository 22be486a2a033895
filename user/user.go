// Package user holds the principal aggregate that sessions are opened for.
package user

import (
	"context"
	"strconv"
	"time"

	"github.com/kbukum/identity/metadata"
)

// User is an identity that can authenticate. PasswordHash is produced by a
// password.Hasher; SecretID references the user's private-key Secret.
type User struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-"`
	SecretID     int64             `json:"secret_id,omitempty"`
	Metadata     metadata.Metadata `json:"metadata"`
}

// New returns a transient user.
func New(name, email, passwordHash string, now time.Time) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Metadata:     metadata.New(now),
	}
}

// Identity is the key a principal's live session is indexed by.
func (u *User) Identity() string { return u.Email }

// Key renders the numeric id for logs and errors.
func (u *User) Key() string { return strconv.FormatInt(u.ID, 10) }

// Repository persists users.
type Repository interface {
	Find(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByName(ctx context.Context, name string) (*User, error)
	// Create stores u with its metadata and assigns both ids.
	Create(ctx context.Context, u *User) error
	Delete(ctx context.Context, u *User) error
}
