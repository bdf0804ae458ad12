package domain

// SubstitutionType tells why an ingredient was proposed as a stand-in.
type SubstitutionType string

const (
	SubstitutionExact    SubstitutionType = "exact"
	SubstitutionCategory SubstitutionType = "category"
	SubstitutionSeasonal SubstitutionType = "seasonal"
	SubstitutionSimilar  SubstitutionType = "similar"
)

// Substitution is a ranked alternative for a missing ingredient.
type Substitution struct {
	Ingredient Ingredient       `json:"ingredient"`
	Type       SubstitutionType `json:"type"`
	Confidence float64          `json:"confidence"` // 0-1
	Reason     string           `json:"reason"`
}

// RecipeIngredientMatch describes a recipe ingredient missing from the pantry.
type RecipeIngredientMatch struct {
	IngredientID  string         `json:"ingredientId"`
	Ingredient    Ingredient     `json:"ingredient"`
	Quantity      float64        `json:"quantity"`
	Unit          string         `json:"unit"`
	Optional      bool           `json:"optional"`
	Substitutions []Substitution `json:"substitutions"`
}

// RecipeMatchResult is how well a recipe can be cooked with the pantry.
// CanMake is true exactly when MissingIngredients is empty.
type RecipeMatchResult struct {
	Recipe               Recipe                  `json:"recipe"`
	MatchPercentage      int                     `json:"matchPercentage"` // 0-100
	AvailableIngredients []string                `json:"availableIngredients"`
	MissingIngredients   []RecipeIngredientMatch `json:"missingIngredients"`
	OptionalMissing      []RecipeIngredientMatch `json:"optionalMissing"`
	CanMake              bool                    `json:"canMake"`
	SeasonalBonus        int                     `json:"seasonalBonus"` // 0-15
}

// RankScore is the value search results are ordered by.
func (r RecipeMatchResult) RankScore() int {
	return r.MatchPercentage + r.SeasonalBonus
}

// AdvancedSearchFilters is the search query. Every field is optional; nil
// pointers and empty values mean "not set".
type AdvancedSearchFilters struct {
	SearchQuery         string   `json:"searchQuery,omitempty"`
	Category            string   `json:"category,omitempty"`
	Difficulty          string   `json:"difficulty,omitempty"`
	PrepTimeMin         *int     `json:"prepTimeMin,omitempty"`
	PrepTimeMax         *int     `json:"prepTimeMax,omitempty"`
	CookTimeMin         *int     `json:"cookTimeMin,omitempty"`
	CookTimeMax         *int     `json:"cookTimeMax,omitempty"`
	ExcludedIngredients []string `json:"excludedIngredients,omitempty"`
	FavoritesOnly       bool     `json:"favoritesOnly,omitempty"`
	SeasonalOnly        bool     `json:"seasonalOnly,omitempty"`
	MatchThreshold      *int     `json:"matchThreshold,omitempty"` // 0-100, default 70
}

// SuggestionType is the kind of entity a search suggestion points at.
type SuggestionType string

const (
	SuggestionRecipe     SuggestionType = "recipe"
	SuggestionIngredient SuggestionType = "ingredient"
	SuggestionCategory   SuggestionType = "category"
)

// SearchSuggestion is an autocomplete entry.
type SearchSuggestion struct {
	Type  SuggestionType `json:"type"`
	Value string         `json:"value"`
	Label string         `json:"label"`
	Count int            `json:"count"`
}
