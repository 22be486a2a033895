// Package metadata holds the creation and touch timestamps embedded in
// every persisted aggregate, and the relational repository that stores them.
package metadata

import (
	"context"
	"time"
)

// Metadata is owned by exactly one aggregate. ID is zero until persisted.
type Metadata struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns transient metadata stamped at now.
func New(now time.Time) Metadata {
	now = now.UTC()
	return Metadata{CreatedAt: now, UpdatedAt: now}
}

// Touch moves UpdatedAt to now.
func (m *Metadata) Touch(now time.Time) {
	m.UpdatedAt = now.UTC()
}

// IsTransient reports whether the metadata has not been persisted yet.
func (m Metadata) IsTransient() bool { return m.ID == 0 }

// Repository persists Metadata records.
type Repository interface {
	Find(ctx context.Context, id int64) (*Metadata, error)
	// Create stores m and assigns its ID.
	Create(ctx context.Context, m *Metadata) error
	Save(ctx context.Context, m *Metadata) error
	Delete(ctx context.Context, m *Metadata) error
}
