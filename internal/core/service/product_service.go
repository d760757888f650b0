package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/ports"
)

const (
	defaultPageLimit   = 20
	maxPageLimit       = 100
	defaultBestSellers = 6
	maxBestSellers     = 50
)

// ProductService serves catalog reads. Single products and the category list
// go through the cache; cache failures degrade to a repository read.
type ProductService struct {
	repo   ports.ProductRepository
	cache  ports.ProductCache
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, cache ports.ProductCache, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, logger: logger}
}

// List returns a page of active products.
func (s *ProductService) List(ctx context.Context, in ports.ListProductsInput) (*ports.ProductPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, ports.ProductFilter{
		Category: strings.TrimSpace(in.Category),
		Query:    strings.TrimSpace(in.Query),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if items == nil {
		items = []*domain.Product{}
	}

	return &ports.ProductPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// Get returns an active product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrProductNotFound
	}

	if s.cache != nil {
		p, ok, err := s.cache.GetProduct(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("product_id", id).Msg("product cache read failed, falling back to store")
		} else if ok {
			return p, nil
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, p); err != nil {
			s.logger.Warn().Err(err).Str("product_id", id).Msg("product cache write failed")
		}
	}
	return p, nil
}

// BestSellers returns the highest rated active products.
func (s *ProductService) BestSellers(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = defaultBestSellers
	}
	if limit > maxBestSellers {
		limit = maxBestSellers
	}
	items, err := s.repo.TopRated(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("best sellers: %w", err)
	}
	if items == nil {
		items = []*domain.Product{}
	}
	return items, nil
}

// Categories returns the distinct categories of active products.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		cats, ok, err := s.cache.GetCategories(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("category cache read failed, falling back to store")
		} else if ok {
			return cats, nil
		}
	}

	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	if cats == nil {
		cats = []string{}
	}

	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, cats); err != nil {
			s.logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return cats, nil
}
