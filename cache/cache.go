package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"weathersnap/datasource"
	"weathersnap/logging"
)

// CachedSource wraps a PayloadSource and adds caching functionality
type CachedSource struct {
	source         datasource.PayloadSource
	cache          map[string]cacheEntry // key is kind:city, city lower-cased
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
	now            func() time.Time
}

// cacheEntry represents a cached payload with its timestamp
type cacheEntry struct {
	Data      map[string]any
	Timestamp time.Time
}

// NewCachedSource creates a new cached wrapper around a payload source.
// A zero duration disables caching.
func NewCachedSource(source datasource.PayloadSource, cacheDuration time.Duration) *CachedSource {
	return &CachedSource{
		source:        source,
		cache:         make(map[string]cacheEntry),
		cacheDuration: cacheDuration,
		now:           time.Now,
	}
}

// Name returns the name of the underlying source with [Cached] suffix
func (c *CachedSource) Name() string {
	return c.source.Name() + " [Cached]"
}

// Weather fetches current conditions, using cache when available
func (c *CachedSource) Weather(ctx context.Context, city string) (map[string]any, error) {
	return c.fetch(ctx, "weather", city, c.source.Weather)
}

// Forecast fetches the forecast, using cache when available
func (c *CachedSource) Forecast(ctx context.Context, city string) (map[string]any, error) {
	return c.fetch(ctx, "forecast", city, c.source.Forecast)
}

type fetchFunc func(ctx context.Context, city string) (map[string]any, error)

func (c *CachedSource) fetch(ctx context.Context, kind, city string, fetch fetchFunc) (map[string]any, error) {
	cacheKey := fmt.Sprintf("%s:%s", kind, strings.ToLower(strings.TrimSpace(city)))

	// First check if we have this payload in the cache
	c.mutex.RLock()
	entry, found := c.cache[cacheKey]
	c.mutex.RUnlock()

	// If found and not expired, return the cached payload
	if found && c.now().Sub(entry.Timestamp) < c.cacheDuration {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		logging.L().Debugw("cache hit", "kind", kind, "city", city,
			"age", c.now().Sub(entry.Timestamp).Round(time.Second))
		return entry.Data, nil
	}

	// Cache miss or expired, fetch fresh data
	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	logging.L().Debugw("cache miss", "kind", kind, "city", city, "source", c.source.Name())

	data, err := fetch(ctx, city)
	if err != nil {
		return nil, err
	}

	// Store in cache
	c.mutex.Lock()
	c.cache[cacheKey] = cacheEntry{
		Data:      data,
		Timestamp: c.now(),
	}
	c.mutex.Unlock()

	return data, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedSource) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Ensure CachedSource implements the PayloadSource interface
var _ datasource.PayloadSource = (*CachedSource)(nil)
