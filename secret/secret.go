// Package secret persists user key material.
//
// A Secret lives in the document store (bbolt) while its Metadata lives in
// the relational store. Manager keeps the two in step with a fixed write
// order; the stores share no transaction, so a failure between the two
// writes leaves an orphan that is logged and reported as UNKNOWN.
package secret

import (
	"context"
	"strconv"
	"time"

	"github.com/kbukum/identity/metadata"
)

// Secret is an opaque credential payload, typically a PEM private key.
type Secret struct {
	ID       int64             `json:"id"`
	Data     []byte            `json:"data"`
	Metadata metadata.Metadata `json:"metadata"`
}

// New returns a transient secret holding data.
func New(data []byte, now time.Time) *Secret {
	return &Secret{Data: data, Metadata: metadata.New(now)}
}

// IsTransient reports whether the secret has not been persisted yet.
func (s *Secret) IsTransient() bool { return s.ID == 0 }

func (s *Secret) key() string { return strconv.FormatInt(s.ID, 10) }

// Repository stores the secret record itself. Only Metadata.ID is kept
// alongside the payload; timestamps belong to the metadata repository.
type Repository interface {
	Find(ctx context.Context, id int64) (*Secret, error)
	// Create stores s and assigns its ID.
	Create(ctx context.Context, s *Secret) error
	Save(ctx context.Context, s *Secret) error
	Delete(ctx context.Context, s *Secret) error
}
