package ports

import (
	"context"

	"github.com/anik/storefront-api/internal/core/domain"
)

// ProductFilter carries the query parameters for listing active products.
type ProductFilter struct {
	Category string // optional: exact category match
	Query    string // optional: case-insensitive match on name or description
	Page     int    // 1-based
	Limit    int
}

// ProductRepository defines read operations on the catalog. Every method only
// ever sees active products.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns a page of products matching filter and the total count.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
	TopRated(ctx context.Context, limit int) ([]*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// ProductCache is a best-effort cache in front of the repository. A miss is
// reported as (nil, false, nil).
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, bool, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	GetCategories(ctx context.Context) ([]string, bool, error)
	SetCategories(ctx context.Context, categories []string) error
}
