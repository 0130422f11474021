// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"market_sync/internal/feature/marketdata/domain/entity"
	"market_sync/internal/feature/marketdata/usecase"
)

var _ usecase.SnapshotStore = (*CachingSnapshotRepository)(nil)

// CachingSnapshotRepository decorates a SnapshotStore with Redis caching of
// the read path. Writes always go to the inner store and then invalidate
// every cached key for the symbol.
type CachingSnapshotRepository struct {
	inner     usecase.SnapshotStore
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

// NewCachingSnapshotRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "snapshots".
func NewCachingSnapshotRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SnapshotStore, namespace string) *CachingSnapshotRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "snapshots"
	}
	return &CachingSnapshotRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// Upsert writes through to the inner store and invalidates the symbol's keys.
func (c *CachingSnapshotRepository) Upsert(ctx context.Context, s *entity.MarketSnapshot) error {
	if err := c.inner.Upsert(ctx, s); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	// Best effort: a stale entry expires with the TTL
	_ = c.deleteByPattern(ctx, c.cacheKeyPrefix(s.Symbol)+"*")
	return nil
}

// FindLatest returns the most recent snapshot for symbol.
func (c *CachingSnapshotRepository) FindLatest(ctx context.Context, symbol string) (*entity.MarketSnapshot, error) {
	return c.cached(ctx, c.cacheKeyPrefix(symbol)+"latest", func() (*entity.MarketSnapshot, error) {
		return c.inner.FindLatest(ctx, symbol)
	})
}

// FindByDate returns the snapshot for symbol on date.
func (c *CachingSnapshotRepository) FindByDate(ctx context.Context, symbol string, date time.Time) (*entity.MarketSnapshot, error) {
	key := c.cacheKeyPrefix(symbol) + entity.DateOf(date).Format("2006-01-02")
	return c.cached(ctx, key, func() (*entity.MarketSnapshot, error) {
		return c.inner.FindByDate(ctx, symbol, date)
	})
}

func (c *CachingSnapshotRepository) cached(ctx context.Context, key string, load func() (*entity.MarketSnapshot, error)) (*entity.MarketSnapshot, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.MarketSnapshot
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the store; misses are not cached
	out, err := load()
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, TTLWithinDay(c.now(), c.ttl)).Err()
	}
	return out, nil
}

// cacheKeyPrefix generates the prefix shared by all keys of one symbol.
func (c *CachingSnapshotRepository) cacheKeyPrefix(symbol string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(symbol))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSnapshotRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
