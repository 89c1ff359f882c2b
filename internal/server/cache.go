package server

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/pipeboard/pipeboard/internal/deal"
	"github.com/pipeboard/pipeboard/internal/logging"
)

const dealsKeyPrefix = "pipeboard:deals:"

// CachedStore wraps a Store with a Redis read-through cache for deal
// listings. Stage updates evict every cached listing. Redis failures fall
// back to the wrapped store.
type CachedStore struct {
	base   Store
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedStore creates a caching wrapper. A nil client or zero ttl
// disables caching.
func NewCachedStore(base Store, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedStore {
	if base == nil {
		panic("server.NewCachedStore: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &CachedStore{base: base, redis: client, ttl: ttl, logger: logger.WithComponent("cache")}
}

// ListDeals serves from Redis when possible.
func (c *CachedStore) ListDeals(ctx context.Context, scope deal.Scope) ([]deal.Deal, error) {
	if deals, ok := c.loadDeals(ctx, scope); ok {
		return deals, nil
	}

	deals, err := c.base.ListDeals(ctx, scope)
	if err != nil {
		return nil, err
	}
	c.storeDeals(ctx, scope, deals)
	return deals, nil
}

// UpdateStage writes through and evicts cached listings.
func (c *CachedStore) UpdateStage(ctx context.Context, id string, stage deal.Stage) (deal.Deal, error) {
	d, err := c.base.UpdateStage(ctx, id, stage)
	if err != nil {
		return deal.Deal{}, err
	}
	c.evictDeals(ctx)
	return d, nil
}

// PendingNotifications is not cached.
func (c *CachedStore) PendingNotifications(ctx context.Context, viewer deal.Scope) ([]deal.Notification, error) {
	return c.base.PendingNotifications(ctx, viewer)
}

// MarkRead is not cached.
func (c *CachedStore) MarkRead(ctx context.Context, viewer deal.Scope, ids []string) error {
	return c.base.MarkRead(ctx, viewer, ids)
}

func dealsCacheKey(scope deal.Scope) string {
	if scope.Role == deal.RoleAdmin {
		return dealsKeyPrefix + "admin"
	}
	return dealsKeyPrefix + "user:" + scope.UserID
}

func (c *CachedStore) loadDeals(ctx context.Context, scope deal.Scope) ([]deal.Deal, bool) {
	if c.redis == nil {
		return nil, false
	}
	key := dealsCacheKey(scope)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", "key", key, "error", err)
			_ = c.redis.Del(ctx, key).Err()
		}
		return nil, false
	}
	var deals []deal.Deal
	if err := sonic.Unmarshal(data, &deals); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return nil, false
	}
	return deals, true
}

func (c *CachedStore) storeDeals(ctx context.Context, scope deal.Scope, deals []deal.Deal) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(deals)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, dealsCacheKey(scope), data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", "error", err)
	}
}

func (c *CachedStore) evictDeals(ctx context.Context) {
	if c.redis == nil {
		return
	}
	var keys []string
	iter := c.redis.Scan(ctx, 0, dealsKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("redis scan failed", "error", err)
	}
	if len(keys) > 0 {
		_, _ = c.redis.Del(ctx, keys...).Result()
	}
}
