package ports

import (
	"context"

	"github.com/anik/storefront-api/internal/core/domain"
)

// CredentialStore persists registered identities. Emails are passed in their
// normalized form. Save must report domain.ErrDuplicateEmail when the storage
// layer's uniqueness constraint rejects the row.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, credential *domain.Credential) (*domain.Credential, error)
}
