package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// DefaultMaxEntries bounds the memory cache when no limit is configured
const DefaultMaxEntries = 512

// cacheItem represents a single search result list in the cache
type cacheItem struct {
	key      string
	payload  []byte // JSON-encoded []domain.RecipeMatchResult
	cachedAt time.Time
	ttl      time.Duration
}

// expired reports whether the item is no longer readable at now
func (i *cacheItem) expired(now time.Time) bool {
	return now.Sub(i.cachedAt) >= i.ttl
}

// MemoryCache is a thread-safe in-memory search cache with TTL and LRU eviction.
// Expired entries are dropped on access or by CleanExpired.
type MemoryCache struct {
	mutex      sync.Mutex
	data       map[string]*list.Element
	order      *list.List // front = most recently used
	maxEntries int        // 0 = unbounded
	clock      domain.Clock
	log        *zap.Logger
}

var _ domain.SearchCache = (*MemoryCache)(nil)

// MemoryOption configures a MemoryCache
type MemoryOption func(*MemoryCache)

// WithMaxEntries caps the number of cached searches. 0 means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n >= 0 {
			c.maxEntries = n
		}
	}
}

// WithClock replaces the wall clock, mostly for tests
func WithClock(clock domain.Clock) MemoryOption {
	return func(c *MemoryCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger used by the sweeper
func WithLogger(log *zap.Logger) MemoryOption {
	return func(c *MemoryCache) {
		if log != nil {
			c.log = log
		}
	}
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cache := &MemoryCache{
		data:       make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: DefaultMaxEntries,
		clock:      domain.SystemClock,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// Get retrieves results from the cache. An expired entry is removed and
// reported as domain.ErrCacheMiss.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]domain.RecipeMatchResult, error) {
	c.mutex.Lock()
	elem, exists := c.data[key]
	if !exists {
		c.mutex.Unlock()
		return nil, domain.ErrCacheMiss
	}

	item := elem.Value.(*cacheItem)
	if item.expired(c.clock.Now()) {
		c.removeElement(elem)
		c.mutex.Unlock()
		return nil, domain.ErrCacheMiss
	}
	c.order.MoveToFront(elem)
	payload := item.payload
	c.mutex.Unlock()

	// Decode outside the lock; every caller gets its own copy
	var results []domain.RecipeMatchResult
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("failed to decode cached results: %w", err)
	}
	return results, nil
}

// Set stores results in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, results []domain.RecipeMatchResult, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	// Serialize so later mutations by the caller do not leak into the cache.
	// This mimics Redis behavior
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	item := &cacheItem{key: key, payload: payload, cachedAt: c.clock.Now(), ttl: ttl}
	if elem, exists := c.data[key]; exists {
		elem.Value = item
		c.order.MoveToFront(elem)
		return nil
	}

	c.data[key] = c.order.PushFront(item)
	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
	}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if elem, exists := c.data[key]; exists {
		c.removeElement(elem)
	}
	return nil
}

// CleanExpired removes expired entries and returns how many were removed
func (c *MemoryCache) CleanExpired(ctx context.Context) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.clock.Now()
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if elem.Value.(*cacheItem).expired(now) {
			c.removeElement(elem)
			removed++
		}
		elem = next
	}
	return removed, nil
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]*list.Element)
	c.order.Init()
	return nil
}

// Size returns the current number of items in the cache, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.data)
}

// StartSweeper removes expired entries every interval until ctx is done.
// The returned channel is closed when the sweeper has stopped.
func (c *MemoryCache) StartSweeper(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, _ := c.CleanExpired(ctx)
				if removed > 0 {
					c.log.Debug("cache sweep", zap.Int("removed", removed), zap.Int("size", c.Size()))
				}
			}
		}
	}()

	return done
}

// removeElement must be called with the mutex held
func (c *MemoryCache) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem)
	delete(c.data, item.key)
	c.order.Remove(elem)
}
