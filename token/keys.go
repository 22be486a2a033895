package token

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// KeyProvider supplies the asymmetric key pair used to sign and verify tokens.
type KeyProvider interface {
	SigningKey() crypto.Signer
	VerifyingKey() crypto.PublicKey
}

// KeyPair is a static KeyProvider.
type KeyPair struct {
	private crypto.Signer
	public  crypto.PublicKey
}

// NewKeyPair wraps an existing key pair. When public is nil it is derived
// from the private key.
func NewKeyPair(private crypto.Signer, public crypto.PublicKey) *KeyPair {
	if public == nil {
		public = private.Public()
	}
	return &KeyPair{private: private, public: public}
}

func (k *KeyPair) SigningKey() crypto.Signer      { return k.private }
func (k *KeyPair) VerifyingKey() crypto.PublicKey { return k.public }

// GenerateKeyPair creates a fresh ECDSA P-256 key pair (ES256).
func GenerateKeyPair() (*KeyPair, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("token: generate key: %w", err)
	}
	return NewKeyPair(key, nil), nil
}

// KeyPairFromPEM decodes base64-encoded PEM key material as found in
// configuration or environment variables. An empty public key is derived
// from the private one.
func KeyPairFromPEM(privateB64, publicB64 string) (*KeyPair, error) {
	privPEM, err := decodeBase64(privateB64)
	if err != nil {
		return nil, fmt.Errorf("token: private key: %w", err)
	}
	private, err := ParsePrivateKeyPEM(privPEM)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(publicB64) == "" {
		return NewKeyPair(private, nil), nil
	}

	pubPEM, err := decodeBase64(publicB64)
	if err != nil {
		return nil, fmt.Errorf("token: public key: %w", err)
	}
	public, err := ParsePublicKeyPEM(pubPEM)
	if err != nil {
		return nil, err
	}
	return NewKeyPair(private, public), nil
}

// ParsePrivateKeyPEM accepts EC, RSA or Ed25519 private keys.
func ParsePrivateKeyPEM(data []byte) (crypto.Signer, error) {
	if k, err := gojwt.ParseECPrivateKeyFromPEM(data); err == nil {
		return k, nil
	}
	if k, err := gojwt.ParseRSAPrivateKeyFromPEM(data); err == nil {
		return k, nil
	}
	k, err := gojwt.ParseEdPrivateKeyFromPEM(data)
	if err != nil {
		return nil, errors.New("token: unsupported private key encoding")
	}
	signer, ok := k.(crypto.Signer)
	if !ok {
		return nil, errors.New("token: private key cannot sign")
	}
	return signer, nil
}

// ParsePublicKeyPEM accepts EC, RSA or Ed25519 public keys.
func ParsePublicKeyPEM(data []byte) (crypto.PublicKey, error) {
	if k, err := gojwt.ParseECPublicKeyFromPEM(data); err == nil {
		return k, nil
	}
	if k, err := gojwt.ParseRSAPublicKeyFromPEM(data); err == nil {
		return k, nil
	}
	k, err := gojwt.ParseEdPublicKeyFromPEM(data)
	if err != nil {
		return nil, errors.New("token: unsupported public key encoding")
	}
	return k, nil
}

// EncodePrivateKeyPEM returns key as a PKCS8 PEM block.
func EncodePrivateKeyPEM(key crypto.Signer) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("token: marshal private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// EncodePublicKeyPEM returns key as a PKIX PEM block.
func EncodePublicKeyPEM(key crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("token: marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}
