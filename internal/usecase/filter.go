package usecase

import (
	"regexp"
	"strings"
	"time"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// maxQueryLength caps sanitized search queries (in runes)
const maxQueryLength = 100

// Compiled patterns for query sanitizing
var (
	// Characters that have no place in a recipe search and could be used for injection
	unsafeQueryChars = regexp.MustCompile(`[<>"/\\&';(){}\[\]]`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeQuery strips unsafe characters, collapses whitespace, trims and
// caps the query at 100 runes.
func SanitizeQuery(query string) string {
	cleaned := unsafeQueryChars.ReplaceAllString(query, "")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if runes := []rune(cleaned); len(runes) > maxQueryLength {
		cleaned = strings.TrimSpace(string(runes[:maxQueryLength]))
	}
	return cleaned
}

// ApplyFilters keeps the recipes matching every set filter, preserving input
// order. now drives the seasonal-only filter.
func ApplyFilters(recipes []domain.Recipe, filters domain.AdvancedSearchFilters, now time.Time) []domain.Recipe {
	query := strings.ToLower(SanitizeQuery(filters.SearchQuery))

	excluded := make(map[string]bool, len(filters.ExcludedIngredients))
	for _, id := range filters.ExcludedIngredients {
		excluded[id] = true
	}

	out := make([]domain.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if query != "" && !matchesQuery(recipe, query) {
			continue
		}
		if !matchesCategory(recipe, filters.Category) {
			continue
		}
		if filters.Difficulty != "" && recipe.Difficulty != filters.Difficulty {
			continue
		}
		if !inRange(recipe.PrepTime, filters.PrepTimeMin, filters.PrepTimeMax) {
			continue
		}
		if !inRange(recipe.CookTime, filters.CookTimeMin, filters.CookTimeMax) {
			continue
		}
		if len(excluded) > 0 && usesAny(recipe, excluded) {
			continue
		}
		if filters.FavoritesOnly && !recipe.IsFavorite {
			continue
		}
		if filters.SeasonalOnly && !hasSeasonalIngredient(recipe, now) {
			continue
		}
		out = append(out, recipe)
	}
	return out
}

// matchesQuery does a case-insensitive substring match on name, description
// and ingredient names. query must already be lowercased.
func matchesQuery(recipe domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(recipe.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(recipe.Description), query) {
		return true
	}
	for _, ref := range recipe.Ingredients {
		if strings.Contains(strings.ToLower(ref.Ingredient.Name), query) {
			return true
		}
	}
	return false
}

// matchesCategory treats the "favoris" pseudo category as a favorite flag check
func matchesCategory(recipe domain.Recipe, category string) bool {
	switch category {
	case "":
		return true
	case domain.FavoritesCategory:
		return recipe.IsFavorite
	default:
		return recipe.Category == category
	}
}

// inRange checks inclusive bounds. An unknown value fails any set bound.
func inRange(value, lower, upper *int) bool {
	if lower == nil && upper == nil {
		return true
	}
	if value == nil {
		return false
	}
	if lower != nil && *value < *lower {
		return false
	}
	if upper != nil && *value > *upper {
		return false
	}
	return true
}

func usesAny(recipe domain.Recipe, ids map[string]bool) bool {
	for _, ref := range recipe.Ingredients {
		if ids[ref.IngredientID] {
			return true
		}
	}
	return false
}

func hasSeasonalIngredient(recipe domain.Recipe, now time.Time) bool {
	for _, ref := range recipe.Ingredients {
		if IsInSeason(ref.Ingredient, now) {
			return true
		}
	}
	return false
}
