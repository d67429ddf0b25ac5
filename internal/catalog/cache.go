// internal/catalog/cache.go
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"fortinat-shop/internal/domain"
)

// DefaultCacheTTL is how long a fetched list is served without refetching.
const DefaultCacheTTL = 2 * time.Minute

const (
	listAll  = "all"
	listNew  = "new"
	listShop = "shop"
)

type cacheEntry struct {
	cosmetics []domain.Cosmetic
	fetchedAt time.Time
}

// Cache is a Source that keeps each list for a TTL. Concurrent refreshes of
// the same list share one upstream call. When a refresh fails the previous
// list is served if there is one.
type Cache struct {
	source Source
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCache wraps source. A non-positive ttl selects DefaultCacheTTL.
func NewCache(source Source, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		source:  source,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) FetchAll(ctx context.Context) ([]domain.Cosmetic, error) {
	return c.load(ctx, listAll, c.source.FetchAll)
}

func (c *Cache) FetchNew(ctx context.Context) ([]domain.Cosmetic, error) {
	return c.load(ctx, listNew, c.source.FetchNew)
}

func (c *Cache) FetchShop(ctx context.Context) ([]domain.Cosmetic, error) {
	return c.load(ctx, listShop, c.source.FetchShop)
}

// Invalidate drops every cached list.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func (c *Cache) load(ctx context.Context, key string, fetch func(context.Context) ([]domain.Cosmetic, error)) ([]domain.Cosmetic, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.cosmetics, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// The refresh outlives any single caller's cancellation.
		cosmetics, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{cosmetics: cosmetics, fetchedAt: c.now()}
		c.mu.Unlock()
		return cosmetics, nil
	})
	if err != nil {
		if ok {
			c.logger.Warn("Catalog refresh failed, serving stale list", "list", key, "age", c.now().Sub(entry.fetchedAt), "error", err)
			return entry.cosmetics, nil
		}
		return nil, fmt.Errorf("catalog: failed to load %s list: %w", key, err)
	}
	return v.([]domain.Cosmetic), nil
}
