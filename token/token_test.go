package token

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/identity/errors"
)

func mustKeyPair(t *testing.T) *KeyPair {
	t.Helper()
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	return kp
}

func TestHashID_Deterministic(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)

	a, err := NewSessionToken("42", issued, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	b, err := NewSessionToken("42", issued, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if a.ID != b.ID {
		t.Errorf("identical claims hashed differently: %s vs %s", a.ID, b.ID)
	}
	if len(a.ID) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a.ID))
	}

	c, _ := NewSessionToken("43", issued, time.Hour)
	if a.ID == c.ID {
		t.Error("different subjects must produce different ids")
	}
}

func TestHashID_ExcludesOwnID(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	tok, _ := NewSessionToken("42", issued, time.Hour)

	again, err := HashID(tok)
	if err != nil {
		t.Fatalf("HashID: %v", err)
	}
	if again != tok.ID {
		t.Error("recomputing over a token with its id set must give the same id")
	}

	tok.ID = "tampered"
	if again2, _ := HashID(tok); again2 != again {
		t.Error("id field must not be part of the hash input")
	}
}

func TestVerificationToken_ID(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	a, _ := NewVerificationToken("alice@example.com", "hash-1", issued, time.Hour)
	b, _ := NewVerificationToken("alice@example.com", "hash-2", issued, time.Hour)
	if a.ID == b.ID {
		t.Error("pwd must be part of the hash input")
	}
	if a.Subject != "alice@example.com" || a.Issuer != Issuer {
		t.Errorf("unexpected registered claims: %+v", a.Registered)
	}
}

func TestSignVerify_RoundTrip(t *testing.T) {
	kp := mustKeyPair(t)
	now := time.Now()
	claims := New("sid-1", "app-1", now, now.Add(time.Minute))

	signed, err := Sign(kp.SigningKey(), claims)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	got, err := Verify[Token](kp.VerifyingKey(), signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if *got != *claims {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, claims)
	}
}

func TestSignVerify_SessionToken(t *testing.T) {
	kp := mustKeyPair(t)
	claims, _ := NewSessionToken("7", time.Now(), time.Hour)

	signed, err := Sign(kp.SigningKey(), claims)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	got, err := Verify[SessionToken](kp.VerifyingKey(), signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.ID != claims.ID {
		t.Errorf("expected sid %s, got %s", claims.ID, got.ID)
	}
}

func TestVerify_Expired(t *testing.T) {
	kp := mustKeyPair(t)
	issued := time.Now().Add(-2 * time.Hour)
	signed, _ := Sign(kp.SigningKey(), New("sid", "app", issued, issued.Add(time.Hour)))

	_, err := Verify[Token](kp.VerifyingKey(), signed)
	if !apperrors.IsCode(err, apperrors.ErrCodeExpired) {
		t.Fatalf("expected EXPIRED, got %v", err)
	}
}

func TestVerify_ExpiredBeatsSignature(t *testing.T) {
	signer := mustKeyPair(t)
	other := mustKeyPair(t)
	issued := time.Now().Add(-2 * time.Hour)
	signed, _ := Sign(signer.SigningKey(), New("sid", "app", issued, issued.Add(time.Hour)))

	_, err := Verify[Token](other.VerifyingKey(), signed)
	if !apperrors.IsCode(err, apperrors.ErrCodeExpired) {
		t.Fatalf("expected EXPIRED regardless of key, got %v", err)
	}
}

func TestVerify_KeyMismatch(t *testing.T) {
	signer := mustKeyPair(t)
	other := mustKeyPair(t)
	now := time.Now()
	signed, _ := Sign(signer.SigningKey(), New("sid", "app", now, now.Add(time.Hour)))

	_, err := Verify[Token](other.VerifyingKey(), signed)
	if !apperrors.IsCode(err, apperrors.ErrCodeKeyMismatch) {
		t.Fatalf("expected KEY_MISMATCH, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	kp := mustKeyPair(t)
	for _, in := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := Verify[Token](kp.VerifyingKey(), in)
		if !apperrors.IsCode(err, apperrors.ErrCodeMalformed) {
			t.Errorf("%q: expected MALFORMED, got %v", in, err)
		}
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	kp := mustKeyPair(t)
	now := time.Now()
	signed, _ := Sign(kp.SigningKey(), New("sid", "app-1", now, now.Add(time.Hour)))

	parts := strings.Split(signed, ".")
	forged := New("sid", "app-2", now, now.Add(time.Hour))
	other, _ := Sign(kp.SigningKey(), forged)
	parts[1] = strings.Split(other, ".")[1]

	_, err := Verify[Token](kp.VerifyingKey(), strings.Join(parts, "."))
	if !apperrors.IsCode(err, apperrors.ErrCodeKeyMismatch) {
		t.Fatalf("expected KEY_MISMATCH for swapped payload, got %v", err)
	}
}

func TestSigningMethodByKeyType(t *testing.T) {
	p384, _ := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	rsaKey, _ := rsa.GenerateKey(rand.Reader, 2048)
	_, edKey, _ := ed25519.GenerateKey(rand.Reader)

	tests := []struct {
		name string
		key  any
		alg  string
	}{
		{"p384", p384, "ES384"},
		{"rsa", rsaKey, "RS256"},
		{"ed25519", edKey, "EdDSA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := signingMethod(tt.key)
			if err != nil {
				t.Fatalf("signingMethod: %v", err)
			}
			if m.Alg() != tt.alg {
				t.Errorf("expected %s, got %s", tt.alg, m.Alg())
			}
		})
	}

	if _, err := signingMethod("secret"); err == nil {
		t.Error("expected error for symmetric key material")
	}
}

func TestKeyPairFromPEM(t *testing.T) {
	kp := mustKeyPair(t)
	privPEM, err := EncodePrivateKeyPEM(kp.SigningKey())
	if err != nil {
		t.Fatalf("EncodePrivateKeyPEM: %v", err)
	}
	pubPEM, err := EncodePublicKeyPEM(kp.VerifyingKey())
	if err != nil {
		t.Fatalf("EncodePublicKeyPEM: %v", err)
	}

	loaded, err := KeyPairFromPEM(
		base64.StdEncoding.EncodeToString(privPEM),
		base64.StdEncoding.EncodeToString(pubPEM),
	)
	if err != nil {
		t.Fatalf("KeyPairFromPEM: %v", err)
	}

	now := time.Now()
	signed, _ := Sign(loaded.SigningKey(), New("sid", "app", now, now.Add(time.Minute)))
	if _, err := Verify[Token](kp.VerifyingKey(), signed); err != nil {
		t.Fatalf("loaded key should match the original: %v", err)
	}

	derived, err := KeyPairFromPEM(base64.StdEncoding.EncodeToString(privPEM), "")
	if err != nil {
		t.Fatalf("KeyPairFromPEM without public: %v", err)
	}
	if _, err := Verify[Token](derived.VerifyingKey(), signed); err != nil {
		t.Fatalf("derived public key should verify: %v", err)
	}
}

func TestKeyPairFromPEM_Invalid(t *testing.T) {
	if _, err := KeyPairFromPEM("!!!", ""); err == nil {
		t.Error("expected base64 error")
	}
	if _, err := KeyPairFromPEM(base64.StdEncoding.EncodeToString([]byte("nope")), ""); err == nil {
		t.Error("expected PEM error")
	}
}
