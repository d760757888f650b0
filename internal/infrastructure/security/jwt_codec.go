// Package security holds the cryptographic adapters behind the core ports:
// bcrypt password hashing and HS256 JWT access tokens.
package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/anik/storefront-api/internal/core/domain"
)

// DefaultTokenTTL bounds how long a leaked token stays usable.
const DefaultTokenTTL = 15 * time.Minute

var signingMethod = jwt.SigningMethodHS256

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec implements ports.TokenCodec with compact HS256 JWS tokens.
type JWTCodec struct {
	now func() time.Time
}

// CodecOption customises a JWTCodec.
type CodecOption func(*JWTCodec)

// WithClock overrides the time source used for iat/exp.
func WithClock(now func() time.Time) CodecOption {
	return func(c *JWTCodec) { c.now = now }
}

func NewJWTCodec(opts ...CodecOption) *JWTCodec {
	c := &JWTCodec{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue signs claims.Subject, Email and Role with iat = now and exp = now+ttl.
// The IssuedAt and ExpiresAt fields of claims are ignored.
func (c *JWTCodec) Issue(claims domain.Claims, key domain.SigningKey, ttl time.Duration) (string, error) {
	if key.IsZero() {
		return "", domain.ErrWeakSigningKey
	}
	if claims.Subject == "" {
		return "", errors.New("issue token: empty subject")
	}
	if ttl < 0 {
		ttl = 0
	}

	now := c.now()
	tc := tokenClaims{
		Email: claims.Email,
		Role:  string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, tc).SignedString(key.Bytes())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, structure and expiry. The signature is checked
// before any claim, so a forged token is always BadSignature even when its
// payload is also expired.
func (c *JWTCodec) Verify(token string, key domain.SigningKey) (claims domain.Claims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims = domain.Claims{}
			err = decodeFailure(domain.ErrTokenMalformed, fmt.Errorf("parser panic: %v", r))
		}
	}()

	if key.IsZero() {
		return domain.Claims{}, decodeFailure(domain.ErrTokenBadSignature, domain.ErrWeakSigningKey)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)

	var tc tokenClaims
	_, err = parser.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return key.Bytes(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) && onlySignatureUndecodable(parser, token) {
			return domain.Claims{}, decodeFailure(domain.ErrTokenBadSignature, err)
		}
		return domain.Claims{}, classify(err)
	}

	if tc.IssuedAt == nil || tc.ExpiresAt == nil {
		return domain.Claims{}, decodeFailure(domain.ErrTokenMalformed, errors.New("missing iat or exp"))
	}
	if !tc.ExpiresAt.After(tc.IssuedAt.Time) {
		return domain.Claims{}, decodeFailure(domain.ErrTokenExpired, errors.New("exp does not exceed iat"))
	}
	if tc.Subject == "" || tc.Email == "" {
		return domain.Claims{}, decodeFailure(domain.ErrTokenMalformed, errors.New("missing sub or email"))
	}
	role, err := domain.ParseRole(tc.Role)
	if err != nil {
		return domain.Claims{}, decodeFailure(domain.ErrTokenMalformed, err)
	}

	return domain.Claims{
		Subject:   tc.Subject,
		Email:     tc.Email,
		Role:      role,
		IssuedAt:  tc.IssuedAt.Time,
		ExpiresAt: tc.ExpiresAt.Time,
	}, nil
}

// classify maps jwt parser errors onto the three decode failures.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return decodeFailure(domain.ErrTokenBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return decodeFailure(domain.ErrTokenExpired, err)
	default:
		return decodeFailure(domain.ErrTokenMalformed, err)
	}
}

// onlySignatureUndecodable reports whether the header and payload of a
// three-segment token parse cleanly, leaving the signature segment as the
// sole reason the parser called it malformed.
func onlySignatureUndecodable(p *jwt.Parser, token string) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	unsigned := token[:strings.LastIndexByte(token, '.')+1]
	_, _, err := p.ParseUnverified(unsigned, &tokenClaims{})
	return err == nil
}

func decodeFailure(reason, cause error) *domain.TokenDecodeError {
	return &domain.TokenDecodeError{Reason: reason, Cause: cause}
}
