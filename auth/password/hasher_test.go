package password

import (
	"strings"
	"testing"

	apperrors "github.com/kbukum/identity/errors"
)

func TestHashers(t *testing.T) {
	hashers := map[string]Hasher{
		"bcrypt":   NewBcryptHasher(WithCost(4)),
		"argon2id": NewArgon2Hasher(WithArgon2Memory(1024)),
	}
	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("s3cr3t-pass")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			if hash == "s3cr3t-pass" {
				t.Fatal("hash must not equal the password")
			}
			if err := h.Verify("s3cr3t-pass", hash); err != nil {
				t.Errorf("Verify(correct): %v", err)
			}
			if err := h.Verify("wrong-pass", hash); !apperrors.IsCode(err, apperrors.ErrCodeUnauthenticated) {
				t.Errorf("Verify(wrong): expected UNAUTHENTICATED, got %v", err)
			}
			if err := h.Verify("s3cr3t-pass", "garbage"); !apperrors.IsCode(err, apperrors.ErrCodeUnauthenticated) {
				t.Errorf("Verify(garbage hash): expected UNAUTHENTICATED, got %v", err)
			}
		})
	}
}

func TestHash_Length(t *testing.T) {
	h := NewBcryptHasher(WithCost(4), WithMinLength(6))
	if _, err := h.Hash("short"); !apperrors.IsCode(err, apperrors.ErrCodePreconditionFailed) {
		t.Errorf("expected PRECONDITION_FAILED for short password, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", maxLength+1)); !apperrors.IsCode(err, apperrors.ErrCodePreconditionFailed) {
		t.Errorf("expected PRECONDITION_FAILED for long password, got %v", err)
	}
	if _, err := h.Hash("sixsix"); err != nil {
		t.Errorf("expected min-length password to hash, got %v", err)
	}
}

func TestNewHasher(t *testing.T) {
	if _, ok := NewHasher(Config{}).(*BcryptHasher); !ok {
		t.Error("default algorithm should be bcrypt")
	}
	if _, ok := NewHasher(Config{Algorithm: AlgorithmArgon2id}).(*Argon2Hasher); !ok {
		t.Error("expected argon2id hasher")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	bad := cfg
	bad.Algorithm = "md5"
	if bad.Validate() == nil {
		t.Error("expected error for unknown algorithm")
	}

	bad = cfg
	bad.MinLength = 100
	if bad.Validate() == nil {
		t.Error("expected error for min_length above bcrypt limit")
	}

	bad = cfg
	bad.Algorithm = AlgorithmArgon2id
	bad.Argon2Memory = 16
	if bad.Validate() == nil {
		t.Error("expected error for argon2 memory below 8 KiB per thread")
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(16)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(a))
	}
	b, _ := GenerateToken(16)
	if a == b {
		t.Error("tokens should differ")
	}
}
