package ports

import (
	"context"

	"github.com/anik/storefront-api/internal/core/domain"
)

// ListProductsInput carries all parameters for the list endpoints.
type ListProductsInput struct {
	Category string
	Query    string
	Page     int
	Limit    int
}

// ProductPage is returned by List.
type ProductPage struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ProductService defines the catalog read use cases.
type ProductService interface {
	List(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	BestSellers(ctx context.Context, limit int) ([]*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}
