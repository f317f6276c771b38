// Package cache holds the Redis-backed featured-products cache. The cached
// value is the JSON-serialized product list under a single key with no TTL;
// it is only replaced explicitly after a featured-flag write.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wattlecart/storefront/internal/shop/domain"
)

const featuredKey = "featured_products"

type FeaturedCache struct {
	rdb *redis.Client
}

func NewFeaturedCache(rdb *redis.Client) *FeaturedCache {
	return &FeaturedCache{rdb: rdb}
}

// Get returns the cached featured list. ok is false on a miss.
func (c *FeaturedCache) Get(ctx context.Context) (products []domain.Product, ok bool, err error) {
	raw, err := c.rdb.Get(ctx, featuredKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get featured: %w", err)
	}

	if err := json.Unmarshal(raw, &products); err != nil {
		// A corrupt entry is treated as a miss; the caller repopulates it.
		return nil, false, nil
	}
	return products, true, nil
}

// Set overwrites the cached featured list. No TTL: the entry lives until the
// next explicit overwrite.
func (c *FeaturedCache) Set(ctx context.Context, products []domain.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("cache: marshal featured: %w", err)
	}
	if err := c.rdb.Set(ctx, featuredKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("cache: set featured: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection is alive.
func (c *FeaturedCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
