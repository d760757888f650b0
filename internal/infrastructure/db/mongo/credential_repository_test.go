package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/anik/storefront-api/internal/core/domain"
)

func credentialDoc(email, role string) bson.D {
	return bson.D{
		{Key: "_id", Value: "u-1"},
		{Key: "email", Value: email},
		{Key: "password_hash", Value: "$2a$10$hash"},
		{Key: "name", Value: "Alice Liddell"},
		{Key: "role", Value: role},
		{Key: "created_at", Value: int64(1700000000)},
		{Key: "updated_at", Value: int64(1700000000)},
	}
}

func TestCredentialRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "storefront." + credentialCollection

	mt.Run("save returns stored credential", func(mt *mtest.T) {
		repo := NewCredentialRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		now := time.Unix(1700000000, 0).UTC()
		got, err := repo.Save(context.Background(), &domain.Credential{
			ID:           "u-1",
			Email:        "alice@example.com",
			PasswordHash: "$2a$10$hash",
			Name:         "Alice Liddell",
			Role:         domain.RoleCustomer,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if got.ID != "u-1" || got.Role != domain.RoleCustomer || !got.CreatedAt.Equal(now) {
			mt.Fatalf("unexpected credential: %+v", got)
		}
	})

	mt.Run("save maps duplicate key to ErrDuplicateEmail", func(mt *mtest.T) {
		repo := NewCredentialRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: storefront.credentials index: email_unique",
		}))

		_, err := repo.Save(context.Background(), &domain.Credential{ID: "u-2", Email: "alice@example.com", Role: domain.RoleCustomer})
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			mt.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewCredentialRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, credentialDoc("alice@example.com", "customer")))

		got, err := repo.FindByEmail(context.Background(), "alice@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if got.Email != "alice@example.com" || got.PasswordHash == "" || got.Name != "Alice Liddell" {
			mt.Fatalf("unexpected credential: %+v", got)
		}
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		repo := NewCredentialRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		if !errors.Is(err, domain.ErrCredentialNotFound) {
			mt.Fatalf("expected ErrCredentialNotFound, got %v", err)
		}
	})

	mt.Run("find by email rejects unknown role", func(mt *mtest.T) {
		repo := NewCredentialRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, credentialDoc("alice@example.com", "root")))

		_, err := repo.FindByEmail(context.Background(), "alice@example.com")
		if !errors.Is(err, domain.ErrUnknownRole) {
			mt.Fatalf("expected ErrUnknownRole, got %v", err)
		}
	})

	mt.Run("exists by email", func(mt *mtest.T) {
		repo := NewCredentialRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		exists, err := repo.ExistsByEmail(context.Background(), "alice@example.com")
		if err != nil || !exists {
			mt.Fatalf("expected exists, got %v %v", exists, err)
		}
		exists, err = repo.ExistsByEmail(context.Background(), "nobody@example.com")
		if err != nil || exists {
			mt.Fatalf("expected missing, got %v %v", exists, err)
		}
	})
}
