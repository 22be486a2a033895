package token

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/zeebo/blake3"
)

// Issuer is the iss claim of every token minted by this service.
const Issuer = "oauth.alvidir.com"

var canonical cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("token: cbor encoding mode: %v", err))
	}
	canonical = em
}

// Registered holds the claim fields shared by all token shapes.
// Timestamps are Unix seconds.
type Registered struct {
	ExpiresAt int64  `json:"exp" cbor:"exp"`
	IssuedAt  int64  `json:"iat" cbor:"iat"`
	Issuer    string `json:"iss" cbor:"iss"`
	Subject   string `json:"sub" cbor:"sub"`
}

func newRegistered(subject string, issued, deadline time.Time) Registered {
	return Registered{
		ExpiresAt: deadline.Unix(),
		IssuedAt:  issued.Unix(),
		Issuer:    Issuer,
		Subject:   subject,
	}
}

func (r Registered) GetExpirationTime() (*gojwt.NumericDate, error) {
	if r.ExpiresAt == 0 {
		return nil, nil
	}
	return gojwt.NewNumericDate(time.Unix(r.ExpiresAt, 0)), nil
}

func (r Registered) GetIssuedAt() (*gojwt.NumericDate, error) {
	if r.IssuedAt == 0 {
		return nil, nil
	}
	return gojwt.NewNumericDate(time.Unix(r.IssuedAt, 0)), nil
}

func (r Registered) GetNotBefore() (*gojwt.NumericDate, error) { return nil, nil }
func (r Registered) GetIssuer() (string, error)                 { return r.Issuer, nil }
func (r Registered) GetSubject() (string, error)                { return r.Subject, nil }
func (r Registered) GetAudience() (gojwt.ClaimStrings, error)   { return nil, nil }

// Deadline returns exp as a time.
func (r Registered) Deadline() time.Time { return time.Unix(r.ExpiresAt, 0) }

// SessionToken is the login credential claim. ID is derived from the other
// fields when the token is built and never recomputed.
type SessionToken struct {
	ID string `json:"sid" cbor:"-"`
	Registered
}

// NewSessionToken builds a SessionToken for subject valid until issued+ttl.
func NewSessionToken(subject string, issued time.Time, ttl time.Duration) (*SessionToken, error) {
	t := &SessionToken{Registered: newRegistered(subject, issued, issued.Add(ttl))}
	id, err := HashID(t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	return t, nil
}

// VerificationToken is the signup/email-verification claim. Subject holds
// the email and Password the credential to be confirmed.
type VerificationToken struct {
	ID       string `json:"tid" cbor:"-"`
	Password string `json:"pwd" cbor:"pwd"`
	Registered
}

// NewVerificationToken builds a VerificationToken for email valid until issued+ttl.
func NewVerificationToken(email, password string, issued time.Time, ttl time.Duration) (*VerificationToken, error) {
	t := &VerificationToken{
		Password:   password,
		Registered: newRegistered(email, issued, issued.Add(ttl)),
	}
	id, err := HashID(t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	return t, nil
}

// Token is the app-scoped credential: Subject is the session id and App the
// application it is valid for.
type Token struct {
	App string `json:"app" cbor:"app"`
	Registered
}

// New builds an app-scoped token for session sid. The deadline is used as
// given; callers keep it within the session's own deadline.
func New(sid, app string, issued, deadline time.Time) *Token {
	return &Token{App: app, Registered: newRegistered(sid, issued, deadline)}
}

// HashID returns the hex BLAKE3-256 digest of the canonical CBOR encoding
// of v. Fields tagged cbor:"-" are not part of the input.
func HashID(v any) (string, error) {
	data, err := canonical.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("token: encode claims: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
