package domain

import "sort"

// Difficulty levels used by the recipe catalog.
const (
	DifficultyEasy   = "facile"
	DifficultyMedium = "moyen"
	DifficultyHard   = "difficile"
)

// FavoritesCategory is the pseudo category that selects favorite recipes
// instead of comparing Recipe.Category.
const FavoritesCategory = "favoris"

// RecipeIngredientRef links a recipe to one of its ingredients. Ingredient is
// the hydrated catalog entry for IngredientID, filled by the catalog layer.
type RecipeIngredientRef struct {
	IngredientID string     `json:"ingredientId"`
	Ingredient   Ingredient `json:"ingredient"`
	Quantity     float64    `json:"quantity"`
	Unit         string     `json:"unit"`
	Optional     bool       `json:"optional"`
	OrderIndex   int        `json:"orderIndex"`
}

// Recipe is a catalog recipe. PrepTime and CookTime are minutes and may be
// unknown.
type Recipe struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description,omitempty"`
	Category     string                `json:"category"`
	Difficulty   string                `json:"difficulty,omitempty"`
	PrepTime     *int                  `json:"prepTime,omitempty"`
	CookTime     *int                  `json:"cookTime,omitempty"`
	Servings     int                   `json:"servings,omitempty"`
	IsFavorite   bool                  `json:"isFavorite"`
	Ingredients  []RecipeIngredientRef `json:"ingredients"`
	Instructions []string              `json:"instructions,omitempty"`
}

// HasIngredient reports whether the recipe references the ingredient id,
// required or optional.
func (r Recipe) HasIngredient(id string) bool {
	for _, ref := range r.Ingredients {
		if ref.IngredientID == id {
			return true
		}
	}
	return false
}

// SortedIngredients returns the ingredient refs in display order
// (OrderIndex ascending). The recipe itself is not modified.
func (r Recipe) SortedIngredients() []RecipeIngredientRef {
	out := make([]RecipeIngredientRef, len(r.Ingredients))
	copy(out, r.Ingredients)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderIndex < out[j].OrderIndex
	})
	return out
}
