package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/ports"
	"github.com/anik/storefront-api/internal/pkg/metrics"
)

const (
	defaultCacheTTL = 5 * time.Minute
	productKeyFmt   = "catalog:product:%s"
	categoriesKey   = "catalog:categories"
)

// ProductCache stores catalog reads as JSON with a fixed TTL.
// Keys: catalog:product:<id> and catalog:categories.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.ProductCache = (*ProductCache)(nil)

// NewProductCache wraps client. A non-positive ttl falls back to five minutes.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ProductCache{client: client, ttl: ttl}
}

func (c *ProductCache) GetProduct(ctx context.Context, id string) (*domain.Product, bool, error) {
	var p domain.Product
	ok, err := c.get(ctx, fmt.Sprintf(productKeyFmt, id), &p)
	if err != nil || !ok {
		return nil, ok, err
	}
	// only active products are ever cached
	p.Active = true
	return &p, true, nil
}

func (c *ProductCache) SetProduct(ctx context.Context, p *domain.Product) error {
	return c.set(ctx, fmt.Sprintf(productKeyFmt, p.ID), p)
}

func (c *ProductCache) GetCategories(ctx context.Context) ([]string, bool, error) {
	var cats []string
	ok, err := c.get(ctx, categoriesKey, &cats)
	if err != nil || !ok {
		return nil, ok, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, true, nil
}

func (c *ProductCache) SetCategories(ctx context.Context, cats []string) error {
	return c.set(ctx, categoriesKey, cats)
}

func (c *ProductCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ProductCacheTotal.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		metrics.ProductCacheTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.ProductCacheTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	metrics.ProductCacheTotal.WithLabelValues("hit").Inc()
	return true, nil
}

func (c *ProductCache) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
