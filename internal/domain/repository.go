package domain

import (
	"context"
	"time"
)

// SearchCache stores computed search results keyed by a canonical filter key.
// Implementations must be safe for concurrent use.
type SearchCache interface {
	// Get returns the cached results, or ErrCacheMiss if absent or expired.
	Get(ctx context.Context, key string) ([]RecipeMatchResult, error)
	Set(ctx context.Context, key string, results []RecipeMatchResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// CleanExpired removes every expired entry and reports how many were removed.
	CleanExpired(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// Clock supplies the current time. Seasonal classification and cache expiry
// read time only through a Clock so tests can pin the month.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
