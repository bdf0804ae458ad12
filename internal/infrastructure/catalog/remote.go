package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

const (
	maxFetchAttempts = 3
	// Catalog documents above this size are rejected.
	maxCatalogBytes = 8 << 20
)

// RemoteSource fetches catalog and synonym documents over HTTP
type RemoteSource struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	log         *zap.Logger
}

// NewRemoteSource creates a new remote catalog source
func NewRemoteSource(log *zap.Logger) *RemoteSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &RemoteSource{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// A refresh hits the origin at most twice a second
		rateLimiter: rate.NewLimiter(rate.Limit(2), 3),
		backoff:     exponentialBackoff,
		log:         log,
	}
}

// IsRemote reports whether a catalog location is an http(s) URL
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// FetchCatalog downloads and validates a catalog document
func (s *RemoteSource) FetchCatalog(ctx context.Context, url string) (*Catalog, error) {
	body, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(body))
}

// FetchSynonyms downloads and validates a synonym table
func (s *RemoteSource) FetchSynonyms(ctx context.Context, url string) (domain.SynonymTable, error) {
	body, err := s.fetch(ctx, url)
	if err != nil {
		return domain.SynonymTable{}, err
	}
	return LoadSynonyms(bytes.NewReader(body))
}

// fetch retries transient failures. 404 and 410 fail immediately.
func (s *RemoteSource) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := s.doRequest(ctx, url)
		switch {
		case err != nil:
			lastErr = err
		case status == http.StatusOK:
			s.log.Debug("catalog document fetched",
				zap.String("url", url),
				zap.Int("bytes", len(body)),
				zap.Int("attempt", attempt))
			return body, nil
		case status == http.StatusNotFound || status == http.StatusGone:
			return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrNotFound, url, status)
		default:
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, status)
		}

		s.log.Warn("catalog fetch failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))

		if attempt < maxFetchAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.backoff(attempt)):
			}
		}
	}

	return nil, lastErr
}

// doRequest executes an HTTP GET and reads at most maxCatalogBytes of the body
func (s *RemoteSource) doRequest(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "CookBook/1.0")
	req.Header.Set("Accept", "application/yaml, text/yaml, */*")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	if len(body) > maxCatalogBytes {
		return nil, resp.StatusCode, fmt.Errorf("%w: document exceeds %d bytes", domain.ErrInvalidCatalog, maxCatalogBytes)
	}
	return body, resp.StatusCode, nil
}

// exponentialBackoff returns 500ms, 1s, 2s...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
}
