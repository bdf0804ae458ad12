package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// RecipeSearcher is the search engine the handlers delegate to
type RecipeSearcher interface {
	SearchRecipes(ctx context.Context, recipes []domain.Recipe, available []domain.Ingredient, filters domain.AdvancedSearchFilters) []domain.RecipeMatchResult
	FindMakeableRecipes(ctx context.Context, recipes []domain.Recipe, available []domain.Ingredient) []domain.RecipeMatchResult
	GenerateSearchSuggestions(ctx context.Context, recipes []domain.Recipe, ingredients []domain.Ingredient, query string) []domain.SearchSuggestion
	CleanExpiredCache(ctx context.Context) int
	ClearCache(ctx context.Context)
}

// CatalogReader supplies the recipes and ingredients to search
type CatalogReader interface {
	Recipes() []domain.Recipe
	Ingredients() []domain.Ingredient
	IngredientsByID(ids []string) []domain.Ingredient
}

// CatalogReloader re-reads the catalog source into the CatalogReader
type CatalogReloader interface {
	Reload(ctx context.Context) (recipes, ingredients int, err error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search   RecipeSearcher
	catalog  CatalogReader
	reloader CatalogReloader
	log      *zap.Logger
}

// NewHandler creates a new HTTP handler. reloader may be nil, in which case
// the reload endpoint is not registered.
func NewHandler(search RecipeSearcher, catalog CatalogReader, reloader CatalogReloader, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{search: search, catalog: catalog, reloader: reloader, log: log}
}

// searchRequest is the body of POST /recipes/search and /recipes/makeable
type searchRequest struct {
	AvailableIngredientIDs []string                     `json:"available_ingredient_ids"`
	Filters                domain.AdvancedSearchFilters `json:"filters"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "cookbook-search",
		"version":     "1.0.0",
		"recipes":     len(h.catalog.Recipes()),
		"ingredients": len(h.catalog.Ingredients()),
	})
}

// SearchRecipes handles POST /api/v1/recipes/search
func (h *Handler) SearchRecipes(c *gin.Context) {
	req, ok := h.bindSearchRequest(c)
	if !ok {
		return
	}
	if err := validateFilters(req.Filters); err != nil {
		h.respondError(c, http.StatusBadRequest, err)
		return
	}

	available := h.catalog.IngredientsByID(req.AvailableIngredientIDs)
	results := h.search.SearchRecipes(c.Request.Context(), h.catalog.Recipes(), available, req.Filters)

	c.JSON(http.StatusOK, results)
}

// FindMakeableRecipes handles POST /api/v1/recipes/makeable
func (h *Handler) FindMakeableRecipes(c *gin.Context) {
	req, ok := h.bindSearchRequest(c)
	if !ok {
		return
	}

	available := h.catalog.IngredientsByID(req.AvailableIngredientIDs)
	results := h.search.FindMakeableRecipes(c.Request.Context(), h.catalog.Recipes(), available)

	c.JSON(http.StatusOK, results)
}

// Suggestions handles GET /api/v1/suggestions?q=
func (h *Handler) Suggestions(c *gin.Context) {
	query := c.Query("q")
	suggestions := h.search.GenerateSearchSuggestions(c.Request.Context(), h.catalog.Recipes(), h.catalog.Ingredients(), query)

	c.JSON(http.StatusOK, suggestions)
}

// ClearCache handles DELETE /api/v1/cache
func (h *Handler) ClearCache(c *gin.Context) {
	h.search.ClearCache(c.Request.Context())
	requestLogger(c, h.log).Info("search cache cleared")
	c.Status(http.StatusNoContent)
}

// CleanExpiredCache handles POST /api/v1/cache/clean
func (h *Handler) CleanExpiredCache(c *gin.Context) {
	removed := h.search.CleanExpiredCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ReloadCatalog handles POST /api/v1/catalog/reload. Cached results are
// dropped after a successful reload since they were computed on the old catalog.
func (h *Handler) ReloadCatalog(c *gin.Context) {
	ctx := c.Request.Context()
	recipes, ingredients, err := h.reloader.Reload(ctx)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrInvalidCatalog) {
			status = http.StatusUnprocessableEntity
		}
		h.respondError(c, status, err)
		return
	}
	h.search.ClearCache(ctx)

	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "ingredients": ingredients})
}

// bindSearchRequest decodes the JSON body. An empty body is an empty request.
func (h *Handler) bindSearchRequest(c *gin.Context) (searchRequest, bool) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(c, http.StatusBadRequest, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return searchRequest{}, false
	}
	return req, true
}

func (h *Handler) respondError(c *gin.Context, status int, err error) {
	requestLogger(c, h.log).Warn("request rejected",
		zap.Int("status", status),
		zap.Error(err))
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// validateFilters rejects filter values the engine cannot interpret
func validateFilters(f domain.AdvancedSearchFilters) error {
	if f.MatchThreshold != nil && (*f.MatchThreshold < 0 || *f.MatchThreshold > 100) {
		return fmt.Errorf("%w: matchThreshold must be within 0..100", domain.ErrInvalidRequest)
	}
	for _, bound := range []*int{f.PrepTimeMin, f.PrepTimeMax, f.CookTimeMin, f.CookTimeMax} {
		if bound != nil && *bound < 0 {
			return fmt.Errorf("%w: time bounds must not be negative", domain.ErrInvalidRequest)
		}
	}
	if f.PrepTimeMin != nil && f.PrepTimeMax != nil && *f.PrepTimeMin > *f.PrepTimeMax {
		return fmt.Errorf("%w: prepTimeMin is greater than prepTimeMax", domain.ErrInvalidRequest)
	}
	if f.CookTimeMin != nil && f.CookTimeMax != nil && *f.CookTimeMin > *f.CookTimeMax {
		return fmt.Errorf("%w: cookTimeMin is greater than cookTimeMax", domain.ErrInvalidRequest)
	}
	return nil
}
