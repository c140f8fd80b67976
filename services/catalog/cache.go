package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const cachePrefix = "catalog:"

// Cache keeps list pages per company. Entries are keyed by a per-company
// version, so Invalidate makes every cached page for that company unreachable
// and lets the TTL collect them. A nil *Cache caches nothing.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func versionKey(companyID uuid.UUID) string {
	return cachePrefix + "ver:" + companyID.String()
}

func (c *Cache) key(ctx context.Context, kind string, companyID uuid.UUID, f Filter) (string, error) {
	ver, err := c.client.Get(ctx, versionKey(companyID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("%s%s:%s:v%d:%s", cachePrefix, kind, companyID, ver, f.cacheKey()), nil
}

func (c *Cache) get(ctx context.Context, key string, dst interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("catalog cache read failed", zap.Error(err))
		}
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *Cache) set(ctx context.Context, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached page for the company.
func (c *Cache) Invalidate(ctx context.Context, companyID uuid.UUID) error {
	if c == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(companyID)).Err()
}

// cached serves kind from the cache, loading and storing it on a miss.
// Cache failures fall through to load.
func cached[T any](ctx context.Context, c *Cache, kind string, companyID uuid.UUID, f Filter, load func() (Page[T], error)) (Page[T], error) {
	if c == nil {
		return load()
	}
	key, err := c.key(ctx, kind, companyID, f)
	if err != nil {
		c.logger.Warn("catalog cache unavailable", zap.Error(err))
		return load()
	}
	var page Page[T]
	if c.get(ctx, key, &page) {
		return page, nil
	}
	page, err = load()
	if err != nil {
		return page, err
	}
	c.set(ctx, key, page)
	return page, nil
}
