package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of roles a credential can hold.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrCredentialNotFound  = errors.New("credential not found")
	ErrEmptyPassword       = errors.New("password must not be empty")
	ErrPasswordTooLong     = errors.New("password exceeds 72 bytes")
	ErrUnknownRole         = errors.New("unknown role")
	ErrUnauthorized        = errors.New("unauthorized")
)

// ParseRole maps a raw role string onto the known roles. Anything outside the
// enumeration is rejected so a typo can never grant access.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Credential is a registered identity together with its password hash.
type Credential struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IdentitySummary is the outward-facing view of a credential.
type IdentitySummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Summary redacts the credential for API responses.
func (c *Credential) Summary() IdentitySummary {
	return IdentitySummary{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Role:  c.Role,
	}
}
