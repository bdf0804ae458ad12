package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

const (
	defaultKeyPrefix = "cookbook"
	scanBatchSize    = 200
)

// ValkeyCache stores search results in a Valkey (or Redis) server.
// Expiry is delegated to the server, so CleanExpired has nothing to do.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

var _ domain.SearchCache = (*ValkeyCache)(nil)

// NewValkeyCache constructs a cache backed by Valkey
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// NewValkeyClient builds a client from either a URL (redis://...) or a bare
// host:port address and checks the server answers PING.
func NewValkeyClient(ctx context.Context, addr string) (valkey.Client, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(addr, "://") {
		opt, err = valkey.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid valkey url: %w", err)
		}
	} else {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}

	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %v", domain.ErrCacheUnavailable, err)
	}
	return client, nil
}

// Get retrieves cached results, returning ErrCacheMiss once the key has expired
func (s *ValkeyCache) Get(ctx context.Context, key string) ([]domain.RecipeMatchResult, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.entryKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	var results []domain.RecipeMatchResult
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		return nil, fmt.Errorf("failed to decode cached results: %w", err)
	}
	return results, nil
}

// Set stores results with a server-side expiry. A non-positive ttl stores nothing.
func (s *ValkeyCache) Set(ctx context.Context, key string, results []domain.RecipeMatchResult, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	// EX has second granularity
	if ttl < time.Second {
		ttl = time.Second
	}
	cmd := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload)).Ex(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes a single cache entry
func (s *ValkeyCache) Delete(ctx context.Context, key string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(s.entryKey(key)).Build()).Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// CleanExpired is a no-op: the server expires keys itself
func (s *ValkeyCache) CleanExpired(ctx context.Context) (int, error) {
	return 0, nil
}

// Clear deletes every key under the cache prefix using SCAN, never KEYS
func (s *ValkeyCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(s.pattern()).Count(scanBatchSize).Build()
		entry, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
		}
		if len(entry.Elements) > 0 {
			if err := s.client.Do(ctx, s.client.B().Del().Key(entry.Elements...).Build()).Error(); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
			}
		}
		if entry.Cursor == 0 {
			return nil
		}
		cursor = entry.Cursor
	}
}

func (s *ValkeyCache) entryKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

func (s *ValkeyCache) pattern() string {
	return s.prefix + ":*"
}
