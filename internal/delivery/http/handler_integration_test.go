package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pierrolalune/CookBook2-sub001/config"
	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
	"github.com/pierrolalune/CookBook2-sub001/internal/infrastructure/cache"
	"github.com/pierrolalune/CookBook2-sub001/internal/infrastructure/catalog"
	"github.com/pierrolalune/CookBook2-sub001/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

const testCatalogYAML = `
ingredients:
  - {id: carotte, name: Carotte, category: vegetables, subcategory: racine}
  - {id: navet, name: Navet, category: vegetables, subcategory: racine}
  - {id: persil, name: Persil, category: other, subcategory: herbe}
  - id: courgette
    name: Courgette
    category: vegetables
    subcategory: fruit-légume
    seasonal: {months: [6, 7, 8, 9], peak_months: [7, 8]}
  - {id: lait, name: Lait, category: dairy}
recipes:
  - id: soupe
    name: Soupe de légumes
    category: entree
    difficulty: facile
    prep_time: 15
    ingredients:
      - {ingredient_id: carotte, quantity: 2, unit: pièce}
      - {ingredient_id: persil, quantity: 1, unit: botte, optional: true}
  - id: gratin
    name: Gratin de courgettes
    category: plat
    favorite: true
    prep_time: 20
    ingredients:
      - {ingredient_id: courgette, quantity: 3, unit: pièce}
      - {ingredient_id: lait, quantity: 20, unit: cl}
`

type testServer struct {
	router      *gin.Engine
	cache       *cache.MemoryCache
	clock       *testClock
	catalogPath string
}

// testClock starts in July and can be moved forward
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// setupTestRouter wires the real engine over an in-memory catalog pinned to July
func setupTestRouter(t *testing.T) testServer {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"*"},
		},
		Cache: config.CacheConfig{Type: "memory", TTL: time.Minute},
	}

	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalogYAML), 0o600))

	source := catalog.NewSource(nil)
	cat, err := source.Catalog(context.Background(), catalogPath)
	require.NoError(t, err)
	store := catalog.NewStore(cat, nil)

	clock := &testClock{now: time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC)}
	memCache := cache.NewMemoryCache(cache.WithClock(clock))
	svc := usecase.NewSearchService(memCache, usecase.SearchServiceConfig{CacheTTL: time.Minute, Clock: clock})

	handler := NewHandler(svc, store, catalog.NewReloader(source, catalogPath, store, nil), nil)
	return testServer{router: SetupRouter(cfg, handler, nil), cache: memCache, clock: clock, catalogPath: catalogPath}
}

func (s testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeResults(t *testing.T, w *httptest.ResponseRecorder) []domain.RecipeMatchResult {
	t.Helper()
	var results []domain.RecipeMatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results), w.Body.String())
	return results
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		srv := setupTestRouter(t)

		w := srv.do(http.MethodGet, "/health", "")

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["recipes"] != float64(2) {
			t.Errorf("recipes = %v, want 2", response["recipes"])
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("X-Request-ID header missing")
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		srv := setupTestRouter(t)

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := srv.do(method, "/health", "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestSearchRecipesEndpoint(t *testing.T) {
	t.Run("returns ranked matches", func(t *testing.T) {
		srv := setupTestRouter(t)

		w := srv.do(http.MethodPost, "/api/v1/recipes/search",
			`{"available_ingredient_ids":["carotte","courgette","lait"],"filters":{"matchThreshold":0}}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		results := decodeResults(t, w)
		require.Len(t, results, 2)
		assert.Equal(t, "gratin", results[0].Recipe.ID)
		assert.Equal(t, 100, results[0].MatchPercentage)
		assert.Equal(t, 5, results[0].SeasonalBonus)
		assert.Equal(t, "soupe", results[1].Recipe.ID)
		assert.True(t, results[1].CanMake)
	})

	t.Run("default threshold and unknown ids", func(t *testing.T) {
		srv := setupTestRouter(t)

		w := srv.do(http.MethodPost, "/api/v1/recipes/search",
			`{"available_ingredient_ids":["carotte","does-not-exist"]}`)

		require.Equal(t, http.StatusOK, w.Code)
		results := decodeResults(t, w)
		require.Len(t, results, 1)
		assert.Equal(t, "soupe", results[0].Recipe.ID)
		assert.Equal(t, 50, results[0].MatchPercentage)
		require.Len(t, results[0].OptionalMissing, 1)
		assert.Equal(t, "persil", results[0].OptionalMissing[0].IngredientID)
	})

	t.Run("filters apply", func(t *testing.T) {
		srv := setupTestRouter(t)

		w := srv.do(http.MethodPost, "/api/v1/recipes/search",
			`{"available_ingredient_ids":[],"filters":{"category":"favoris","matchThreshold":0}}`)

		require.Equal(t, http.StatusOK, w.Code)
		results := decodeResults(t, w)
		require.Len(t, results, 1)
		assert.Equal(t, "gratin", results[0].Recipe.ID)
	})

	t.Run("results are cached", func(t *testing.T) {
		srv := setupTestRouter(t)
		body := `{"available_ingredient_ids":["carotte"]}`

		srv.do(http.MethodPost, "/api/v1/recipes/search", body)
		assert.Equal(t, 1, srv.cache.Size())

		w := srv.do(http.MethodDelete, "/api/v1/cache", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, 0, srv.cache.Size())
	})

	t.Run("cached results are scoped to the pantry", func(t *testing.T) {
		srv := setupTestRouter(t)

		w := srv.do(http.MethodPost, "/api/v1/recipes/search",
			`{"available_ingredient_ids":["carotte"],"filters":{"matchThreshold":0}}`)
		require.Equal(t, http.StatusOK, w.Code)
		first := decodeResults(t, w)
		require.Len(t, first, 2)
		assert.Equal(t, "soupe", first[0].Recipe.ID)

		w = srv.do(http.MethodPost, "/api/v1/recipes/search",
			`{"available_ingredient_ids":["courgette","lait"],"filters":{"matchThreshold":0}}`)
		require.Equal(t, http.StatusOK, w.Code)
		second := decodeResults(t, w)
		require.Len(t, second, 2)
		assert.Equal(t, "gratin", second[0].Recipe.ID)
		assert.Equal(t, 100, second[0].MatchPercentage)
		assert.True(t, second[0].CanMake)
		assert.Equal(t, []string{"courgette", "lait"}, second[0].AvailableIngredients)
		assert.Equal(t, "soupe", second[1].Recipe.ID)
		assert.False(t, second[1].CanMake)
		assert.Equal(t, 2, srv.cache.Size())

		w = srv.do(http.MethodPost, "/api/v1/recipes/search",
			`{"available_ingredient_ids":["lait","courgette"],"filters":{"matchThreshold":0}}`)
		assert.Equal(t, second, decodeResults(t, w))
		assert.Equal(t, 2, srv.cache.Size(), "same pantry is served from cache")
	})

	t.Run("empty body is an empty search", func(t *testing.T) {
		srv := setupTestRouter(t)

		w := srv.do(http.MethodPost, "/api/v1/recipes/search", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeResults(t, w))
	})

	t.Run("rejects invalid requests", func(t *testing.T) {
		srv := setupTestRouter(t)

		bodies := map[string]string{
			"malformed json":      `{"available_ingredient_ids":`,
			"threshold above 100": `{"filters":{"matchThreshold":101}}`,
			"negative threshold":  `{"filters":{"matchThreshold":-1}}`,
			"inverted prep range": `{"filters":{"prepTimeMin":30,"prepTimeMax":10}}`,
			"negative cook time":  `{"filters":{"cookTimeMax":-5}}`,
		}

		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				w := srv.do(http.MethodPost, "/api/v1/recipes/search", body)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				var response map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Contains(t, response["error"], domain.ErrInvalidRequest.Error())
			})
		}
	})
}

func TestCleanExpiredCacheEndpoint(t *testing.T) {
	srv := setupTestRouter(t)

	srv.do(http.MethodPost, "/api/v1/recipes/search", `{"available_ingredient_ids":["carotte"]}`)
	srv.do(http.MethodPost, "/api/v1/recipes/search", `{"filters":{"category":"plat"}}`)
	require.Equal(t, 2, srv.cache.Size())

	w := srv.do(http.MethodPost, "/api/v1/cache/clean", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":0}`, w.Body.String())

	srv.clock.now = srv.clock.now.Add(2 * time.Minute)

	w = srv.do(http.MethodPost, "/api/v1/cache/clean", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":2}`, w.Body.String())
	assert.Equal(t, 0, srv.cache.Size())
}

func TestMakeableRecipesEndpoint(t *testing.T) {
	srv := setupTestRouter(t)

	w := srv.do(http.MethodPost, "/api/v1/recipes/makeable",
		`{"available_ingredient_ids":["carotte","courgette","lait"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	results := decodeResults(t, w)
	require.Len(t, results, 2)
	assert.Equal(t, "gratin", results[0].Recipe.ID)
	assert.Equal(t, "soupe", results[1].Recipe.ID)
	assert.Equal(t, 0, srv.cache.Size(), "makeable search bypasses the cache")
}

func TestSuggestionsEndpoint(t *testing.T) {
	srv := setupTestRouter(t)

	tests := []struct {
		name  string
		query string
		want  []domain.SearchSuggestion
	}{
		{
			name:  "too short",
			query: "c",
			want:  []domain.SearchSuggestion{},
		},
		{
			name:  "recipe and ingredient",
			query: "courgette",
			want: []domain.SearchSuggestion{
				{Type: domain.SuggestionRecipe, Value: "gratin", Label: "Gratin de courgettes"},
				{Type: domain.SuggestionIngredient, Value: "courgette", Label: "Courgette", Count: 1},
			},
		},
		{
			name:  "category",
			query: "entr",
			want: []domain.SearchSuggestion{
				{Type: domain.SuggestionCategory, Value: "entree", Label: "Entrée", Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(http.MethodGet, "/api/v1/suggestions?q="+tt.query, "")

			require.Equal(t, http.StatusOK, w.Code)
			var got []domain.SearchSuggestion
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReloadCatalogEndpoint(t *testing.T) {
	srv := setupTestRouter(t)
	srv.do(http.MethodPost, "/api/v1/recipes/search", `{"available_ingredient_ids":["carotte"]}`)
	require.Equal(t, 1, srv.cache.Size())

	extended := testCatalogYAML + `  - id: puree
    name: Purée de carottes
    category: accompagnement
    ingredients:
      - {ingredient_id: carotte, quantity: 500, unit: g}
`
	require.NoError(t, os.WriteFile(srv.catalogPath, []byte(extended), 0o600))

	w := srv.do(http.MethodPost, "/api/v1/catalog/reload", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"recipes":3,"ingredients":5}`, w.Body.String())
	assert.Equal(t, 0, srv.cache.Size(), "reload drops cached results")

	w = srv.do(http.MethodPost, "/api/v1/recipes/search", `{"available_ingredient_ids":["carotte"]}`)
	results := decodeResults(t, w)
	require.Len(t, results, 2)
	assert.Equal(t, "puree", results[0].Recipe.ID)

	t.Run("invalid catalog is rejected", func(t *testing.T) {
		require.NoError(t, os.WriteFile(srv.catalogPath, []byte("recipes: ["), 0o600))

		w := srv.do(http.MethodPost, "/api/v1/catalog/reload", "")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var health map[string]interface{}
		require.NoError(t, json.Unmarshal(srv.do(http.MethodGet, "/health", "").Body.Bytes(), &health))
		assert.Equal(t, float64(3), health["recipes"])
	})

	t.Run("not registered without a reloader", func(t *testing.T) {
		handler := NewHandler(nil, catalog.NewStore(nil, nil), nil, nil)
		router := SetupRouter(&config.Config{}, handler, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSuggestionsEndpoint_ZeroCountIsExplicit(t *testing.T) {
	srv := setupTestRouter(t)

	w := srv.do(http.MethodGet, "/api/v1/suggestions?q=boisson", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"type":"category","value":"boisson","label":"Boisson","count":0}]`, w.Body.String())
}
