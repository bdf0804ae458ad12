package domain

import "errors"

var (
	// ErrNotFound is returned when a recipe or ingredient id is unknown
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidCatalog is returned when a catalog or synonym file is malformed
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrCatalogUnavailable is returned when a remote catalog cannot be fetched
	ErrCatalogUnavailable = errors.New("catalog source unavailable")

	// ErrCacheMiss is returned when data is not found in cache or has expired
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
