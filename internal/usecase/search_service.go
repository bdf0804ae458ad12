package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// Search defaults
const (
	DefaultCacheTTL       = 5 * time.Minute
	DefaultMatchThreshold = 70

	// relaxedThreshold is the threshold at or below which any recipe with at
	// least one available ingredient is kept
	relaxedThreshold = 50
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL              time.Duration
	DefaultMatchThreshold int
	MaxSubstitutions      int
	Synonyms              domain.SynonymTable
	Clock                 domain.Clock
	Logger                *zap.Logger
}

// SearchService is the entry point for recipe search. It composes the filter
// pipeline, the match calculator and the result cache. Its exported methods
// never panic: an unexpected failure is logged and yields an empty result.
type SearchService struct {
	cache            domain.SearchCache
	matcher          Matcher
	clock            domain.Clock
	log              *zap.Logger
	cacheTTL         time.Duration
	defaultThreshold int
	inflight         singleflight.Group
}

// NewSearchService creates a new search service with dependencies.
// A nil cache disables result caching.
func NewSearchService(cache domain.SearchCache, config SearchServiceConfig) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	threshold := config.DefaultMatchThreshold
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultMatchThreshold
	}

	clock := config.Clock
	if clock == nil {
		clock = domain.SystemClock
	}

	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &SearchService{
		cache: cache,
		matcher: NewMatchCalculator(MatchConfig{
			MaxSubstitutions: config.MaxSubstitutions,
			Synonyms:         config.Synonyms,
		}),
		clock:            clock,
		log:              log,
		cacheTTL:         cacheTTL,
		defaultThreshold: threshold,
	}
}

// SearchRecipes filters, scores and ranks recipes for the pantry.
// Flow: check cache -> filter -> match -> sort -> threshold relaxation -> cache -> return.
// Identical filters over the same pantry within the cache TTL return the
// cached list unchanged.
func (s *SearchService) SearchRecipes(
	ctx context.Context,
	recipes []domain.Recipe,
	available []domain.Ingredient,
	filters domain.AdvancedSearchFilters,
) (results []domain.RecipeMatchResult) {
	defer s.recoverInto("SearchRecipes", &results)

	key, err := CacheKey(filters, available, s.defaultThreshold)
	if err != nil {
		s.log.Error("failed to build search cache key", zap.Error(err))
		return s.computeSearch(recipes, available, filters)
	}

	if cached, ok := s.getFromCache(ctx, key); ok {
		return cached
	}

	value, err, shared := s.inflight.Do(key, func() (interface{}, error) {
		// Another caller may have stored the key while we were waiting
		if cached, ok := s.getFromCache(ctx, key); ok {
			return cached, nil
		}
		computed := s.computeSearch(recipes, available, filters)
		s.setInCache(ctx, key, computed)
		return computed, nil
	})
	if err != nil {
		s.log.Error("search computation failed", zap.String("key", key), zap.Error(err))
		return []domain.RecipeMatchResult{}
	}
	if shared {
		s.log.Debug("search result shared with concurrent caller", zap.String("key", key))
	}

	return value.([]domain.RecipeMatchResult)
}

// FindMakeableRecipes returns every recipe with no missing required
// ingredient, best match first. It bypasses the cache.
func (s *SearchService) FindMakeableRecipes(
	ctx context.Context,
	recipes []domain.Recipe,
	available []domain.Ingredient,
) (results []domain.RecipeMatchResult) {
	defer s.recoverInto("FindMakeableRecipes", &results)

	now := s.clock.Now()
	results = make([]domain.RecipeMatchResult, 0, len(recipes))
	for _, recipe := range recipes {
		if err := ctx.Err(); err != nil {
			s.log.Debug("makeable search cancelled", zap.Error(err))
			return []domain.RecipeMatchResult{}
		}
		match := s.matcher.ComputeMatch(recipe, available, now)
		if match.CanMake {
			results = append(results, match)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchPercentage > results[j].MatchPercentage
	})
	return results
}

// CleanExpiredCache removes expired cache entries and returns how many were removed.
func (s *SearchService) CleanExpiredCache(ctx context.Context) int {
	if s.cache == nil {
		return 0
	}
	removed, err := s.cache.CleanExpired(ctx)
	if err != nil {
		s.log.Warn("failed to clean expired search cache", zap.Error(err))
		return 0
	}
	if removed > 0 {
		s.log.Debug("expired search cache entries removed", zap.Int("count", removed))
	}
	return removed
}

// ClearCache empties the result cache. Call it after the catalog changes.
func (s *SearchService) ClearCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.log.Warn("failed to clear search cache", zap.Error(err))
	}
}

// computeSearch runs the uncached part of SearchRecipes
func (s *SearchService) computeSearch(
	recipes []domain.Recipe,
	available []domain.Ingredient,
	filters domain.AdvancedSearchFilters,
) []domain.RecipeMatchResult {
	now := s.clock.Now()
	filtered := ApplyFilters(recipes, filters, now)

	matches := make([]domain.RecipeMatchResult, 0, len(filtered))
	for _, recipe := range filtered {
		matches = append(matches, s.matcher.ComputeMatch(recipe, available, now))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RankScore() > matches[j].RankScore()
	})

	threshold := s.threshold(filters)
	kept := make([]domain.RecipeMatchResult, 0, len(matches))
	for _, match := range matches {
		if keepMatch(match, threshold) {
			kept = append(kept, match)
		}
	}

	s.log.Debug("search computed",
		zap.Int("recipes", len(recipes)),
		zap.Int("filtered", len(filtered)),
		zap.Int("kept", len(kept)),
		zap.Int("threshold", threshold))

	return kept
}

// keepMatch applies threshold relaxation: makeable recipes always pass, and
// low thresholds also let through anything with one available ingredient.
func keepMatch(match domain.RecipeMatchResult, threshold int) bool {
	if match.CanMake || match.MatchPercentage >= threshold {
		return true
	}
	return threshold <= relaxedThreshold && len(match.AvailableIngredients) > 0
}

func (s *SearchService) threshold(filters domain.AdvancedSearchFilters) int {
	if filters.MatchThreshold == nil {
		return s.defaultThreshold
	}
	return *filters.MatchThreshold
}

// getFromCache treats any cache failure as a miss
func (s *SearchService) getFromCache(ctx context.Context, key string) ([]domain.RecipeMatchResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.log.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	s.log.Debug("search cache hit", zap.String("key", key), zap.Int("count", len(cached)))
	return cached, true
}

// setInCache stores results; failures are logged, not returned
func (s *SearchService) setInCache(ctx context.Context, key string, results []domain.RecipeMatchResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, results, s.cacheTTL); err != nil {
		s.log.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// recoverInto turns a panic into an empty result and reports it
func (s *SearchService) recoverInto(op string, results *[]domain.RecipeMatchResult) {
	if r := recover(); r != nil {
		s.log.Error("recovered from panic",
			zap.String("op", op),
			zap.Any("panic", r),
			zap.Stack("stack"))
		*results = []domain.RecipeMatchResult{}
	}
}

// cacheKeyFilters is the canonical form of a search used in cache keys.
// Field order is fixed by the struct, excluded and pantry ids are sorted and
// deduplicated, the query is sanitized and the threshold is resolved.
type cacheKeyFilters struct {
	Pantry              []string `json:"pantry"`
	SearchQuery         string   `json:"q"`
	Category            string   `json:"cat"`
	Difficulty          string   `json:"diff"`
	PrepTimeMin         *int     `json:"pmin"`
	PrepTimeMax         *int     `json:"pmax"`
	CookTimeMin         *int     `json:"cmin"`
	CookTimeMax         *int     `json:"cmax"`
	ExcludedIngredients []string `json:"ex"`
	FavoritesOnly       bool     `json:"fav"`
	SeasonalOnly        bool     `json:"season"`
	MatchThreshold      int      `json:"th"`
}

// CacheKey builds the canonical cache key for a filter set searched against
// the available ingredients. Only ingredient ids identify the pantry.
// Format: "search:{canonical json}"
func CacheKey(filters domain.AdvancedSearchFilters, available []domain.Ingredient, defaultThreshold int) (string, error) {
	pantry := make([]string, 0, len(available))
	for _, ing := range available {
		pantry = append(pantry, ing.ID)
	}

	threshold := defaultThreshold
	if filters.MatchThreshold != nil {
		threshold = *filters.MatchThreshold
	}

	canonical := cacheKeyFilters{
		Pantry:              sortedUnique(pantry),
		SearchQuery:         SanitizeQuery(filters.SearchQuery),
		Category:            filters.Category,
		Difficulty:          filters.Difficulty,
		PrepTimeMin:         filters.PrepTimeMin,
		PrepTimeMax:         filters.PrepTimeMax,
		CookTimeMin:         filters.CookTimeMin,
		CookTimeMax:         filters.CookTimeMax,
		ExcludedIngredients: sortedUnique(filters.ExcludedIngredients),
		FavoritesOnly:       filters.FavoritesOnly,
		SeasonalOnly:        filters.SeasonalOnly,
		MatchThreshold:      threshold,
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("failed to encode filters: %w", err)
	}
	return "search:" + string(data), nil
}

func sortedUnique(ids []string) []string {
	if len(ids) == 0 {
		return []string{}
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
