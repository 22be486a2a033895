package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrCiphertext is returned for input that is truncated, tampered with or
// sealed under another key.
var ErrCiphertext = errors.New("encryption: invalid ciphertext")

// Cipher seals and opens byte slices.
type Cipher interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(ciphertext []byte) ([]byte, error)
}

// Algorithm names a supported AEAD.
type Algorithm string

const (
	AlgorithmAESGCM   Algorithm = "aes-256-gcm"
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// New returns a Cipher for alg keyed by passphrase. An empty alg selects
// AES-256-GCM.
func New(passphrase string, alg Algorithm) (Cipher, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("encryption: key is required")
	}
	key := sha256.Sum256([]byte(passphrase))

	var (
		a   cipher.AEAD
		err error
	)
	switch alg {
	case "", AlgorithmAESGCM:
		var block cipher.Block
		if block, err = aes.NewCipher(key[:]); err == nil {
			a, err = cipher.NewGCM(block)
		}
	case AlgorithmChaCha20:
		a, err = chacha20poly1305.New(key[:])
	default:
		return nil, fmt.Errorf("encryption: unsupported algorithm %q", alg)
	}
	if err != nil {
		return nil, fmt.Errorf("encryption: %w", err)
	}
	return aead{a}, nil
}

type aead struct {
	cipher.AEAD
}

func (c aead) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.NonceSize(), c.NonceSize()+len(plaintext)+c.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("encryption: nonce: %w", err)
	}
	return c.AEAD.Seal(nonce, nonce, plaintext, nil), nil
}

func (c aead) Open(ciphertext []byte) ([]byte, error) {
	n := c.NonceSize()
	if len(ciphertext) < n+c.Overhead() {
		return nil, ErrCiphertext
	}
	plaintext, err := c.AEAD.Open(nil, ciphertext[:n], ciphertext[n:], nil)
	if err != nil {
		return nil, ErrCiphertext
	}
	return plaintext, nil
}
