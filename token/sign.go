package token

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/kbukum/identity/errors"
)

// claimsPtr constrains Verify's type parameter to pointers of claim structs.
type claimsPtr[T any] interface {
	*T
	gojwt.Claims
}

// Sign serializes claims as a JWT signed with key. The algorithm follows
// from the key type.
func Sign(key crypto.PrivateKey, claims gojwt.Claims) (string, error) {
	method, err := signingMethod(key)
	if err != nil {
		return "", err
	}
	signed, err := gojwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		return "", apperrors.Unknown(fmt.Errorf("token: sign: %w", err))
	}
	return signed, nil
}

// Verify parses signed with the public key and returns its claims.
func Verify[T any, P claimsPtr[T]](key crypto.PublicKey, signed string) (*T, error) {
	return VerifyAt[T, P](key, signed, time.Now())
}

// VerifyAt is Verify evaluated at the given instant. Expiry is checked
// before the signature, so an expired token reports Expired even when it
// was signed by another key.
func VerifyAt[T any, P claimsPtr[T]](key crypto.PublicKey, signed string, now time.Time) (*T, error) {
	method, err := signingMethod(key)
	if err != nil {
		return nil, err
	}

	unverified := P(new(T))
	if _, _, err := gojwt.NewParser().ParseUnverified(signed, unverified); err != nil {
		return nil, apperrors.Malformed().WithCause(err)
	}
	exp, err := unverified.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, apperrors.Malformed().WithDetail("claim", "exp")
	}
	if !now.Before(exp.Time) {
		return nil, apperrors.Expired()
	}

	claims := P(new(T))
	_, err = gojwt.ParseWithClaims(signed, claims,
		func(*gojwt.Token) (interface{}, error) { return key, nil },
		gojwt.WithValidMethods([]string{method.Alg()}),
		gojwt.WithIssuer(Issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(func() time.Time { return now }),
	)
	switch {
	case err == nil:
		return (*T)(claims), nil
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return nil, apperrors.KeyMismatch().WithCause(err)
	case errors.Is(err, gojwt.ErrTokenExpired):
		return nil, apperrors.Expired()
	default:
		return nil, apperrors.Malformed().WithCause(err)
	}
}

// signingMethod maps key material to its JWT algorithm.
func signingMethod(key any) (gojwt.SigningMethod, error) {
	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		return ecdsaMethod(k.Curve.Params().BitSize)
	case *ecdsa.PublicKey:
		return ecdsaMethod(k.Curve.Params().BitSize)
	case *rsa.PrivateKey, *rsa.PublicKey:
		return gojwt.SigningMethodRS256, nil
	case ed25519.PrivateKey, ed25519.PublicKey:
		return gojwt.SigningMethodEdDSA, nil
	default:
		return nil, apperrors.Unknown(fmt.Errorf("token: unsupported key type %T", key))
	}
}

func ecdsaMethod(bits int) (gojwt.SigningMethod, error) {
	switch bits {
	case 256:
		return gojwt.SigningMethodES256, nil
	case 384:
		return gojwt.SigningMethodES384, nil
	case 521:
		return gojwt.SigningMethodES512, nil
	default:
		return nil, apperrors.Unknown(fmt.Errorf("token: unsupported ecdsa curve size %d", bits))
	}
}
