package ports

import (
	"time"

	"github.com/anik/storefront-api/internal/core/domain"
)

// PasswordHasher hashes and checks plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never errors: a malformed hash is simply a mismatch.
	Verify(plaintext, hash string) bool
}

// TokenCodec issues and verifies signed access tokens. Verify only ever
// returns *domain.TokenDecodeError as its error.
type TokenCodec interface {
	Issue(claims domain.Claims, key domain.SigningKey, ttl time.Duration) (string, error)
	Verify(token string, key domain.SigningKey) (domain.Claims, error)
}
