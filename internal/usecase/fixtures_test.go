package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// inMonth returns a fixed instant in the given month of 2024
func inMonth(month time.Month) time.Time {
	return time.Date(2024, month, 15, 12, 0, 0, 0, time.UTC)
}

// fixedClock returns a clock pinned to the given month
func fixedClock(month time.Month) domain.Clock {
	return domain.ClockFunc(func() time.Time { return inMonth(month) })
}

func intPtr(v int) *int { return &v }

var (
	carotte = domain.Ingredient{
		ID: "ing-carotte", Name: "Carotte",
		Category: domain.CategoryVegetables, Subcategory: "racine",
	}
	navet = domain.Ingredient{
		ID: "ing-navet", Name: "Navet",
		Category: domain.CategoryVegetables, Subcategory: "racine",
	}
	courgette = domain.Ingredient{
		ID: "ing-courgette", Name: "Courgette",
		Category: domain.CategoryVegetables, Subcategory: "fruit-légume",
		Seasonal: &domain.SeasonalInfo{Months: []int{6, 7, 8, 9}, PeakMonths: []int{7, 8}, Season: "été"},
	}
	persil = domain.Ingredient{
		ID: "ing-persil", Name: "Persil",
		Category: domain.CategoryOther, Subcategory: "herbe",
	}
	fraise = domain.Ingredient{
		ID: "ing-fraise", Name: "Fraise",
		Category: domain.CategoryFruits, Subcategory: "baie",
		Seasonal: &domain.SeasonalInfo{Months: []int{5, 6, 7}, PeakMonths: []int{6}, Season: "printemps"},
	}
	poireau = domain.Ingredient{
		ID: "ing-poireau", Name: "Poireau",
		Category: domain.CategoryVegetables, Subcategory: "tige",
		Seasonal: &domain.SeasonalInfo{Months: []int{12, 1, 2}, PeakMonths: []int{1}, Season: "hiver"},
	}
	boeuf = domain.Ingredient{
		ID: "ing-boeuf", Name: "Bœuf",
		Category: domain.CategoryMeat, Subcategory: "rouge",
	}
	porc = domain.Ingredient{
		ID: "ing-porc", Name: "Porc",
		Category: domain.CategoryGrocery, Subcategory: "charcuterie",
	}
	lait = domain.Ingredient{
		ID: "ing-lait", Name: "Lait",
		Category: domain.CategoryDairy, Subcategory: "lait",
	}
)

func ref(ing domain.Ingredient, qty float64, unit string, optional bool, order int) domain.RecipeIngredientRef {
	return domain.RecipeIngredientRef{
		IngredientID: ing.ID,
		Ingredient:   ing,
		Quantity:     qty,
		Unit:         unit,
		Optional:     optional,
		OrderIndex:   order,
	}
}

// soupeDeLegumes: Carotte (required) + Persil (optional)
func soupeDeLegumes() domain.Recipe {
	return domain.Recipe{
		ID:          "rec-soupe",
		Name:        "Soupe de légumes",
		Description: "Une soupe simple et réconfortante",
		Category:    "entree",
		Difficulty:  domain.DifficultyEasy,
		PrepTime:    intPtr(15),
		CookTime:    intPtr(30),
		Servings:    4,
		Ingredients: []domain.RecipeIngredientRef{
			ref(carotte, 2, "pièce", false, 0),
			ref(persil, 1, "botte", true, 1),
		},
	}
}

func gratinCourgettes() domain.Recipe {
	return domain.Recipe{
		ID:          "rec-gratin",
		Name:        "Gratin de courgettes",
		Description: "Gratin d'été au four",
		Category:    "plat",
		Difficulty:  domain.DifficultyMedium,
		PrepTime:    intPtr(20),
		CookTime:    intPtr(45),
		IsFavorite:  true,
		Ingredients: []domain.RecipeIngredientRef{
			ref(courgette, 3, "pièce", false, 0),
			ref(lait, 20, "cl", false, 1),
		},
	}
}

func tarteFraises() domain.Recipe {
	return domain.Recipe{
		ID:         "rec-tarte",
		Name:       "Tarte aux fraises",
		Category:   "dessert",
		Difficulty: domain.DifficultyHard,
		PrepTime:   intPtr(40),
		Ingredients: []domain.RecipeIngredientRef{
			ref(fraise, 500, "g", false, 0),
			ref(lait, 25, "cl", false, 1),
		},
	}
}

func potAuFeu() domain.Recipe {
	return domain.Recipe{
		ID:          "rec-potaufeu",
		Name:        "Pot-au-feu",
		Description: "Bœuf et légumes d'hiver",
		Category:    "plat",
		Difficulty:  domain.DifficultyMedium,
		CookTime:    intPtr(180),
		Ingredients: []domain.RecipeIngredientRef{
			ref(boeuf, 1, "kg", false, 0),
			ref(carotte, 4, "pièce", false, 1),
			ref(poireau, 2, "pièce", false, 2),
			ref(navet, 2, "pièce", true, 3),
		},
	}
}

func catalogRecipes() []domain.Recipe {
	return []domain.Recipe{soupeDeLegumes(), gratinCourgettes(), tarteFraises(), potAuFeu()}
}

// countingMatcher wraps a Matcher and counts ComputeMatch calls
type countingMatcher struct {
	mu    sync.Mutex
	inner Matcher
	calls int
}

func (m *countingMatcher) ComputeMatch(recipe domain.Recipe, available []domain.Ingredient, now time.Time) domain.RecipeMatchResult {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.inner.ComputeMatch(recipe, available, now)
}

func (m *countingMatcher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// panickingMatcher simulates an unexpected internal failure
type panickingMatcher struct{}

func (panickingMatcher) ComputeMatch(domain.Recipe, []domain.Ingredient, time.Time) domain.RecipeMatchResult {
	panic("boom")
}

// MockSearchCache is a map-backed domain.SearchCache with error injection
type MockSearchCache struct {
	mu        sync.Mutex
	data      map[string][]domain.RecipeMatchResult
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	cleared   bool
}

func NewMockSearchCache() *MockSearchCache {
	return &MockSearchCache{data: make(map[string][]domain.RecipeMatchResult)}
}

func (m *MockSearchCache) Get(ctx context.Context, key string) ([]domain.RecipeMatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockSearchCache) Set(ctx context.Context, key string, results []domain.RecipeMatchResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = results
	return nil
}

func (m *MockSearchCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockSearchCache) CleanExpired(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *MockSearchCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = true
	m.data = make(map[string][]domain.RecipeMatchResult)
	return nil
}

func (m *MockSearchCache) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
