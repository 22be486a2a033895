package secret

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/kbukum/identity/encryption"
	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
)

const (
	resource = "secret"
	bucket   = "secrets"
)

var errBucketMissing = fmt.Errorf("%s bucket is missing", bucket)

type record struct {
	Data       []byte `json:"data"`
	MetadataID int64  `json:"metadata_id"`
}

// BoltRepository stores secrets in a bbolt file, keyed by a big-endian
// sequence number. With a cipher the secret data is sealed at rest.
type BoltRepository struct {
	db     *bbolt.DB
	cipher encryption.Cipher
	log    *logger.Logger
}

// BoltOption configures a BoltRepository.
type BoltOption func(*BoltRepository)

// WithCipher seals secret data with c before it is written.
func WithCipher(c encryption.Cipher) BoltOption {
	return func(r *BoltRepository) { r.cipher = c }
}

var _ Repository = (*BoltRepository)(nil)

// OpenBolt opens (or creates) the bbolt file at path.
func OpenBolt(path string, log *logger.Logger, opts ...BoltOption) (*BoltRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("secret store path is required")
	}
	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open secret store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s bucket: %w", bucket, err)
	}
	r := &BoltRepository{db: db, log: log.WithComponent("secret.repository")}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close closes the underlying bbolt file.
func (r *BoltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *BoltRepository) Find(ctx context.Context, id int64) (*Secret, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unknown(err)
	}

	var rec record
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return errBucketMissing
		}
		payload := b.Get(itob(id))
		if payload == nil {
			return apperrors.NotFound(resource, fmt.Sprint(id))
		}
		return json.Unmarshal(payload, &rec)
	})
	if err != nil {
		return nil, r.classify(err, "find", fmt.Sprint(id))
	}

	data := rec.Data
	if r.cipher != nil {
		if data, err = r.cipher.Open(data); err != nil {
			return nil, r.classify(err, "find", fmt.Sprint(id))
		}
	}

	s := &Secret{ID: id, Data: data}
	s.Metadata.ID = rec.MetadataID
	return s, nil
}

func (r *BoltRepository) Create(ctx context.Context, s *Secret) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Unknown(err)
	}
	if !s.IsTransient() {
		return apperrors.AlreadyExists(resource)
	}

	var id int64
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return errBucketMissing
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		id = int64(seq)
		return r.put(b, id, s)
	})
	if err != nil {
		return r.classify(err, "create", "")
	}
	s.ID = id
	return nil
}

func (r *BoltRepository) Save(ctx context.Context, s *Secret) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Unknown(err)
	}
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return errBucketMissing
		}
		if b.Get(itob(s.ID)) == nil {
			return apperrors.NotFound(resource, s.key())
		}
		return r.put(b, s.ID, s)
	})
	return r.classify(err, "save", s.key())
}

func (r *BoltRepository) Delete(ctx context.Context, s *Secret) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Unknown(err)
	}
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return errBucketMissing
		}
		if b.Get(itob(s.ID)) == nil {
			return apperrors.NotFound(resource, s.key())
		}
		return b.Delete(itob(s.ID))
	})
	return r.classify(err, "delete", s.key())
}

// Ping checks that the store is open and the bucket is readable.
func (r *BoltRepository) Ping() error {
	return r.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(bucket)) == nil {
			return errBucketMissing
		}
		return nil
	})
}

func (r *BoltRepository) classify(err error, op, key string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	r.log.Error("Secret store operation failed", map[string]interface{}{
		logger.FieldOperation: op,
		logger.FieldKey:       key,
		logger.FieldError:     err.Error(),
	})
	return apperrors.Unknown(err)
}

func (r *BoltRepository) put(b *bbolt.Bucket, id int64, s *Secret) error {
	data := s.Data
	if r.cipher != nil {
		var err error
		if data, err = r.cipher.Seal(data); err != nil {
			return err
		}
	}
	payload, err := json.Marshal(record{Data: data, MetadataID: s.Metadata.ID})
	if err != nil {
		return fmt.Errorf("marshal secret: %w", err)
	}
	return b.Put(itob(id), payload)
}

func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}
