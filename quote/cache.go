package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stocks-simulator/models"
)

// Cache stores recent quotes by normalized symbol.
type Cache interface {
	Get(ctx context.Context, symbol string) (models.Quote, bool, error)
	Set(ctx context.Context, q models.Quote) error
}

// Cached serves quotes from a Cache and falls through to the wrapped Lookup
// on a miss. Cache errors are logged and never fail a lookup.
type Cached struct {
	next   Lookup
	cache  Cache
	logger *zap.Logger
}

func NewCached(next Lookup, cache Cache, logger *zap.Logger) *Cached {
	return &Cached{next: next, cache: cache, logger: logger}
}

func (c *Cached) Lookup(ctx context.Context, symbol string) (models.Quote, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return models.Quote{}, ErrUnknownSymbol
	}
	q, ok, err := c.cache.Get(ctx, symbol)
	if err != nil {
		c.logger.Warn("quote cache read failed", zap.String("symbol", symbol), zap.Error(err))
	}
	if ok {
		return q, nil
	}

	q, err = c.next.Lookup(ctx, symbol)
	if err != nil {
		return models.Quote{}, err
	}
	if err := c.cache.Set(ctx, q); err != nil {
		c.logger.Warn("quote cache write failed", zap.String("symbol", symbol), zap.Error(err))
	}
	return q, nil
}

// Price serves a cached quote's price. On a miss it asks the wrapped lookup
// for the price alone when it can; such results carry no name and are not
// cached.
func (c *Cached) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return decimal.Decimal{}, ErrUnknownSymbol
	}
	q, ok, err := c.cache.Get(ctx, symbol)
	if err != nil {
		c.logger.Warn("quote cache read failed", zap.String("symbol", symbol), zap.Error(err))
	}
	if ok {
		return q.Price, nil
	}
	if p, ok := c.next.(Pricer); ok {
		return p.Price(ctx, symbol)
	}
	q, err = c.Lookup(ctx, symbol)
	return q.Price, err
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("quote:%s", symbol)
}

// RedisCache keeps quotes in Redis as JSON.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, symbol string) (models.Quote, bool, error) {
	raw, err := r.rdb.Get(ctx, cacheKey(symbol)).Result()
	if errors.Is(err, redis.Nil) {
		return models.Quote{}, false, nil
	}
	if err != nil {
		return models.Quote{}, false, err
	}
	var q models.Quote
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return models.Quote{}, false, fmt.Errorf("decode cached quote: %w", err)
	}
	return q, true, nil
}

func (r *RedisCache) Set(ctx context.Context, q models.Quote) error {
	raw, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, cacheKey(q.Symbol), string(raw), r.ttl).Err()
}

// MemoryCache is an in-process TTL cache for deployments without Redis.
type MemoryCache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

func NewMemoryCache(maxEntries int64, ttl time.Duration) (*MemoryCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryCache{c: c, ttl: ttl}, nil
}

func (m *MemoryCache) Get(_ context.Context, symbol string) (models.Quote, bool, error) {
	v, ok := m.c.Get(cacheKey(symbol))
	if !ok {
		return models.Quote{}, false, nil
	}
	q, ok := v.(models.Quote)
	return q, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, q models.Quote) error {
	m.c.SetWithTTL(cacheKey(q.Symbol), q, 1, m.ttl)
	m.c.Wait()
	return nil
}
