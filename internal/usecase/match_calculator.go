package usecase

import (
	"math"
	"time"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// Matcher computes how well a recipe can be cooked from a pantry.
type Matcher interface {
	ComputeMatch(recipe domain.Recipe, available []domain.Ingredient, now time.Time) domain.RecipeMatchResult
}

// MatchConfig holds configuration for the match calculator
type MatchConfig struct {
	MaxSubstitutions int
	Synonyms         domain.SynonymTable
}

// MatchCalculator scores recipes against the available ingredients.
// It holds no mutable state; ComputeMatch is deterministic for a given
// (recipe, available, now).
type MatchCalculator struct {
	resolver         *SubstitutionResolver
	maxSubstitutions int
}

var _ Matcher = (*MatchCalculator)(nil)

// NewMatchCalculator creates a calculator with the given configuration
func NewMatchCalculator(config MatchConfig) *MatchCalculator {
	maxSubs := config.MaxSubstitutions
	if maxSubs <= 0 {
		maxSubs = defaultMaxSuggestions
	}

	return &MatchCalculator{
		resolver:         NewSubstitutionResolver(config.Synonyms),
		maxSubstitutions: maxSubs,
	}
}

// ComputeMatch partitions the recipe ingredients into available and missing,
// attaches ranked substitutions to every missing one, and computes the match
// percentage over required + optional ingredients. A recipe without
// ingredients matches at 100%.
func (c *MatchCalculator) ComputeMatch(
	recipe domain.Recipe,
	available []domain.Ingredient,
	now time.Time,
) domain.RecipeMatchResult {
	availableIDs := make(map[string]bool, len(available))
	for _, ing := range available {
		availableIDs[ing.ID] = true
	}

	var required, optional []domain.RecipeIngredientRef
	for _, ref := range recipe.Ingredients {
		if ref.Optional {
			optional = append(optional, ref)
		} else {
			required = append(required, ref)
		}
	}

	availableList := make([]string, 0, len(recipe.Ingredients))
	missingRequired := make([]domain.RecipeIngredientMatch, 0)
	missingOptional := make([]domain.RecipeIngredientMatch, 0)

	for _, ref := range required {
		if availableIDs[ref.IngredientID] {
			availableList = append(availableList, ref.IngredientID)
			continue
		}
		missingRequired = append(missingRequired, c.missing(ref, available, now))
	}

	for _, ref := range optional {
		if availableIDs[ref.IngredientID] {
			availableList = append(availableList, ref.IngredientID)
			continue
		}
		missingOptional = append(missingOptional, c.missing(ref, available, now))
	}

	return domain.RecipeMatchResult{
		Recipe:               recipe,
		MatchPercentage:      matchPercentage(len(availableList), len(required)+len(optional)),
		AvailableIngredients: availableList,
		MissingIngredients:   missingRequired,
		OptionalMissing:      missingOptional,
		CanMake:              len(missingRequired) == 0,
		SeasonalBonus:        SeasonalBonus(recipe, now),
	}
}

// missing builds the match entry for an ingredient absent from the pantry
func (c *MatchCalculator) missing(
	ref domain.RecipeIngredientRef,
	available []domain.Ingredient,
	now time.Time,
) domain.RecipeIngredientMatch {
	target := ref.Ingredient
	if target.ID == "" {
		target.ID = ref.IngredientID
	}

	opts := DefaultSubstitutionOptions()
	opts.MaxSuggestions = c.maxSubstitutions

	return domain.RecipeIngredientMatch{
		IngredientID:  ref.IngredientID,
		Ingredient:    ref.Ingredient,
		Quantity:      ref.Quantity,
		Unit:          ref.Unit,
		Optional:      ref.Optional,
		Substitutions: c.resolver.FindSubstitutions(target, available, now, opts),
	}
}

// matchPercentage rounds 100*available/total half away from zero
func matchPercentage(availableCount, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(availableCount) / float64(total)))
}
