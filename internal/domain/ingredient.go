package domain

// IngredientCategory is the closed set of ingredient families.
type IngredientCategory string

const (
	CategoryFruits     IngredientCategory = "fruits"
	CategoryVegetables IngredientCategory = "vegetables"
	CategoryMeat       IngredientCategory = "meat"
	CategoryDairy      IngredientCategory = "dairy"
	CategoryGrocery    IngredientCategory = "grocery"
	CategoryFish       IngredientCategory = "fish"
	CategoryOther      IngredientCategory = "other"
)

// IngredientCategories lists every valid ingredient category.
var IngredientCategories = []IngredientCategory{
	CategoryFruits,
	CategoryVegetables,
	CategoryMeat,
	CategoryDairy,
	CategoryGrocery,
	CategoryFish,
	CategoryOther,
}

// Valid reports whether c belongs to the closed category set.
func (c IngredientCategory) Valid() bool {
	for _, known := range IngredientCategories {
		if c == known {
			return true
		}
	}
	return false
}

// SeasonalInfo describes when an ingredient is available.
// PeakMonths is expected to be a subset of Months; months are 1..12.
type SeasonalInfo struct {
	Months     []int  `json:"months" yaml:"months"`
	PeakMonths []int  `json:"peakMonths" yaml:"peak_months"`
	Season     string `json:"season" yaml:"season"`
}

// Ingredient is a catalog ingredient. It is treated as immutable for the
// duration of a search call.
type Ingredient struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Category    IngredientCategory `json:"category"`
	Subcategory string             `json:"subcategory,omitempty"`
	Seasonal    *SeasonalInfo      `json:"seasonal,omitempty"`
	IsFavorite  bool               `json:"isFavorite"`
	UserCreated bool               `json:"isUserCreated"`
}
