package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// MinSigningKeyBytes is the smallest accepted HMAC key (256 bits).
const MinSigningKeyBytes = 32

var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
	ErrWeakSigningKey    = fmt.Errorf("signing key must be at least %d bytes", MinSigningKeyBytes)
)

// SigningKey is the process-wide symmetric key. It is built once at startup
// and passed explicitly to every token operation.
type SigningKey struct {
	b []byte
}

// NewSigningKey copies secret into an immutable key.
func NewSigningKey(secret []byte) (SigningKey, error) {
	if len(secret) < MinSigningKeyBytes {
		return SigningKey{}, ErrWeakSigningKey
	}
	b := make([]byte, len(secret))
	copy(b, secret)
	return SigningKey{b: b}, nil
}

// Bytes returns a copy of the key material.
func (k SigningKey) Bytes() []byte {
	b := make([]byte, len(k.b))
	copy(b, k.b)
	return b
}

// IsZero reports whether the key was never initialised.
func (k SigningKey) IsZero() bool { return len(k.b) == 0 }

// Claims is the payload carried inside a signed token.
type Claims struct {
	Subject   string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenDecodeError is the only error shape TokenCodec.Verify returns. Reason is
// one of ErrTokenMalformed, ErrTokenBadSignature or ErrTokenExpired.
type TokenDecodeError struct {
	Reason error
	Cause  error
}

func (e *TokenDecodeError) Error() string {
	if e.Cause == nil {
		return e.Reason.Error()
	}
	return e.Reason.Error() + ": " + e.Cause.Error()
}

func (e *TokenDecodeError) Unwrap() error { return e.Reason }

// Principal is the verified identity attached to a single request.
type Principal struct {
	SubjectID string
	Role      Role
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal attached to ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
