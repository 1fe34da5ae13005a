package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"agencydesk/internal/shared/config"
)

const productNameTTL = 12 * time.Hour

// ProductNameCache caches provider product display names so welcome
// notifications do not hit the provider API on every subscription creation.
// With Redis not configured every lookup is a miss and every store a no-op.
type ProductNameCache struct {
	client *redis.Client
}

func NewProductNameCache(cfg *config.RedisConfig) *ProductNameCache {
	if !cfg.Enabled() {
		return &ProductNameCache{}
	}
	return &ProductNameCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.GetAddr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *ProductNameCache) Get(ctx context.Context, productID string) (string, bool) {
	if c.client == nil {
		return "", false
	}
	name, err := c.client.Get(ctx, c.key(productID)).Result()
	if err != nil {
		return "", false
	}
	return name, true
}

func (c *ProductNameCache) Set(ctx context.Context, productID, name string) {
	if c.client == nil {
		return
	}
	c.client.Set(ctx, c.key(productID), name, productNameTTL)
}

func (c *ProductNameCache) key(productID string) string {
	return "billing:product_name:" + productID
}
