package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

const (
	minSuggestionQueryLength = 2
	maxRecipeSuggestions     = 5
	maxIngredientSuggestions = 5
)

// RecipeCategoryLabel pairs a recipe category value with its display label
type RecipeCategoryLabel struct {
	Value string
	Label string
}

// RecipeCategoryLabels is the fixed set of recipe categories offered as suggestions.
var RecipeCategoryLabels = []RecipeCategoryLabel{
	{Value: "entree", Label: "Entrée"},
	{Value: "plat", Label: "Plat principal"},
	{Value: "dessert", Label: "Dessert"},
	{Value: "accompagnement", Label: "Accompagnement"},
	{Value: "aperitif", Label: "Apéritif"},
	{Value: "petit-dejeuner", Label: "Petit-déjeuner"},
	{Value: "boisson", Label: "Boisson"},
}

// GenerateSearchSuggestions proposes up to 5 recipes, up to 5 ingredients
// (with the number of recipes using each) and the matching recipe categories
// (with their recipe counts), in that order. Queries shorter than two
// characters yield no suggestions.
func (s *SearchService) GenerateSearchSuggestions(
	ctx context.Context,
	recipes []domain.Recipe,
	ingredients []domain.Ingredient,
	query string,
) (suggestions []domain.SearchSuggestion) {
	defer s.recoverSuggestions(&suggestions)

	needle := strings.ToLower(SanitizeQuery(query))
	if utf8.RuneCountInString(needle) < minSuggestionQueryLength {
		return []domain.SearchSuggestion{}
	}

	suggestions = make([]domain.SearchSuggestion, 0, maxRecipeSuggestions+maxIngredientSuggestions)
	suggestions = append(suggestions, recipeSuggestions(recipes, needle)...)
	suggestions = append(suggestions, ingredientSuggestions(recipes, ingredients, needle)...)
	suggestions = append(suggestions, categorySuggestions(recipes, needle)...)

	s.log.Debug("suggestions generated",
		zap.String("query", needle),
		zap.Int("count", len(suggestions)))

	return suggestions
}

func recipeSuggestions(recipes []domain.Recipe, needle string) []domain.SearchSuggestion {
	out := make([]domain.SearchSuggestion, 0, maxRecipeSuggestions)
	for _, recipe := range recipes {
		if len(out) == maxRecipeSuggestions {
			break
		}
		if strings.Contains(strings.ToLower(recipe.Name), needle) {
			out = append(out, domain.SearchSuggestion{
				Type:  domain.SuggestionRecipe,
				Value: recipe.ID,
				Label: recipe.Name,
			})
		}
	}
	return out
}

func ingredientSuggestions(recipes []domain.Recipe, ingredients []domain.Ingredient, needle string) []domain.SearchSuggestion {
	out := make([]domain.SearchSuggestion, 0, maxIngredientSuggestions)
	for _, ing := range ingredients {
		if len(out) == maxIngredientSuggestions {
			break
		}
		if !strings.Contains(strings.ToLower(ing.Name), needle) {
			continue
		}
		count := 0
		for _, recipe := range recipes {
			if recipe.HasIngredient(ing.ID) {
				count++
			}
		}
		out = append(out, domain.SearchSuggestion{
			Type:  domain.SuggestionIngredient,
			Value: ing.ID,
			Label: ing.Name,
			Count: count,
		})
	}
	return out
}

func categorySuggestions(recipes []domain.Recipe, needle string) []domain.SearchSuggestion {
	var out []domain.SearchSuggestion
	for _, category := range RecipeCategoryLabels {
		if !strings.Contains(strings.ToLower(category.Label), needle) &&
			!strings.Contains(category.Value, needle) {
			continue
		}
		count := 0
		for _, recipe := range recipes {
			if recipe.Category == category.Value {
				count++
			}
		}
		out = append(out, domain.SearchSuggestion{
			Type:  domain.SuggestionCategory,
			Value: category.Value,
			Label: category.Label,
			Count: count,
		})
	}
	return out
}

func (s *SearchService) recoverSuggestions(suggestions *[]domain.SearchSuggestion) {
	if r := recover(); r != nil {
		s.log.Error("recovered from panic",
			zap.String("op", "GenerateSearchSuggestions"),
			zap.Any("panic", r),
			zap.Stack("stack"))
		*suggestions = []domain.SearchSuggestion{}
	}
}
