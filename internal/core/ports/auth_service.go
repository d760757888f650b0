package ports

import (
	"context"

	"github.com/anik/storefront-api/internal/core/domain"
)

// RegisterInput carries the fields accepted by the registration endpoint.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	User  domain.IdentitySummary
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
