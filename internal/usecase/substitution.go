package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// Substitution confidence by heuristic
const (
	confidenceExact    = 0.95 // Same category and subcategory
	confidenceCategory = 0.75 // Same category only
	confidenceSeasonal = 0.60 // Different category, both in season right now
	confidenceSimilar  = 0.40 // Names share a synonym group

	defaultMaxSuggestions = 5
)

// SubstitutionOptions tunes FindSubstitutions. Use DefaultSubstitutionOptions
// as a starting point: the zero value disables seasonal alternatives.
type SubstitutionOptions struct {
	ExactCategoryMatch          bool
	IncludeSeasonalAlternatives bool
	MaxSuggestions              int
}

// DefaultSubstitutionOptions returns {ExactCategoryMatch: false,
// IncludeSeasonalAlternatives: true, MaxSuggestions: 5}.
func DefaultSubstitutionOptions() SubstitutionOptions {
	return SubstitutionOptions{
		IncludeSeasonalAlternatives: true,
		MaxSuggestions:              defaultMaxSuggestions,
	}
}

// SubstitutionResolver ranks pantry ingredients that could replace a missing one.
// It is stateless apart from its synonym table and safe for concurrent use.
type SubstitutionResolver struct {
	synonyms synonymIndex
}

// NewSubstitutionResolver creates a resolver for the given synonym table.
// An empty table falls back to DefaultSynonymTable.
func NewSubstitutionResolver(table domain.SynonymTable) *SubstitutionResolver {
	if len(table.Groups) == 0 {
		table = DefaultSynonymTable
	}
	return &SubstitutionResolver{synonyms: newSynonymIndex(table)}
}

// FindSubstitutions scores every pool ingredient except the target itself and
// returns the candidates ranked by confidence (pool order on ties), truncated
// to opts.MaxSuggestions. Candidates matching no heuristic are dropped.
func (r *SubstitutionResolver) FindSubstitutions(
	target domain.Ingredient,
	pool []domain.Ingredient,
	now time.Time,
	opts SubstitutionOptions,
) []domain.Substitution {
	limit := opts.MaxSuggestions
	if limit <= 0 {
		limit = defaultMaxSuggestions
	}

	targetInSeason := IsInSeason(target, now)

	candidates := make([]domain.Substitution, 0, len(pool))
	for _, candidate := range pool {
		if candidate.ID == target.ID {
			continue
		}
		sub, ok := r.score(target, candidate, targetInSeason, now, opts)
		if ok {
			candidates = append(candidates, sub)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// score applies the heuristics in priority order and returns the first that matches
func (r *SubstitutionResolver) score(
	target, candidate domain.Ingredient,
	targetInSeason bool,
	now time.Time,
	opts SubstitutionOptions,
) (domain.Substitution, bool) {
	sameCategory := candidate.Category == target.Category

	if sameCategory && candidate.Subcategory == target.Subcategory {
		return domain.Substitution{
			Ingredient: candidate,
			Type:       domain.SubstitutionExact,
			Confidence: confidenceExact,
			Reason:     fmt.Sprintf("même catégorie et sous-catégorie (%s)", describeSubcategory(target)),
		}, true
	}

	if sameCategory && !opts.ExactCategoryMatch {
		return domain.Substitution{
			Ingredient: candidate,
			Type:       domain.SubstitutionCategory,
			Confidence: confidenceCategory,
			Reason:     fmt.Sprintf("même catégorie (%s)", target.Category),
		}, true
	}

	if !sameCategory && opts.IncludeSeasonalAlternatives && targetInSeason && IsInSeason(candidate, now) {
		return domain.Substitution{
			Ingredient: candidate,
			Type:       domain.SubstitutionSeasonal,
			Confidence: confidenceSeasonal,
			Reason:     "également de saison",
		}, true
	}

	if tag, ok := r.synonyms.similar(target.Name, candidate.Name); ok {
		return domain.Substitution{
			Ingredient: candidate,
			Type:       domain.SubstitutionSimilar,
			Confidence: confidenceSimilar,
			Reason:     fmt.Sprintf("ingrédient similaire (%s)", tag),
		}, true
	}

	return domain.Substitution{}, false
}

func describeSubcategory(ing domain.Ingredient) string {
	if ing.Subcategory == "" {
		return string(ing.Category)
	}
	return fmt.Sprintf("%s/%s", ing.Category, ing.Subcategory)
}
