package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// Catalog is a validated snapshot of every recipe and ingredient.
// Recipe ingredient refs are hydrated and sorted by OrderIndex.
type Catalog struct {
	Ingredients []domain.Ingredient
	Recipes     []domain.Recipe
}

// catalogFile is the on-disk YAML layout
type catalogFile struct {
	Ingredients []ingredientEntry `yaml:"ingredients"`
	Recipes     []recipeEntry     `yaml:"recipes"`
}

type ingredientEntry struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Category    string               `yaml:"category"`
	Subcategory string               `yaml:"subcategory"`
	Seasonal    *domain.SeasonalInfo `yaml:"seasonal"`
	Favorite    bool                 `yaml:"favorite"`
	UserCreated bool                 `yaml:"user_created"`
}

type recipeEntry struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description"`
	Category     string          `yaml:"category"`
	Difficulty   string          `yaml:"difficulty"`
	PrepTime     *int            `yaml:"prep_time"`
	CookTime     *int            `yaml:"cook_time"`
	Servings     int             `yaml:"servings"`
	Favorite     bool            `yaml:"favorite"`
	Ingredients  []recipeRefItem `yaml:"ingredients"`
	Instructions []string        `yaml:"instructions"`
}

// recipeRefItem points at an ingredient by id or, failing that, by name
type recipeRefItem struct {
	IngredientID string  `yaml:"ingredient_id"`
	Ingredient   string  `yaml:"ingredient"`
	Quantity     float64 `yaml:"quantity"`
	Unit         string  `yaml:"unit"`
	Optional     bool    `yaml:"optional"`
	OrderIndex   *int    `yaml:"order_index"`
}

// LoadFile reads and validates a catalog YAML file
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes and validates a catalog from r. Entries without an id get a
// generated one.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	return file.toCatalog()
}

func (f catalogFile) toCatalog() (*Catalog, error) {
	ingredients := make([]domain.Ingredient, 0, len(f.Ingredients))
	byID := make(map[string]domain.Ingredient, len(f.Ingredients))
	byName := make(map[string]domain.Ingredient, len(f.Ingredients))

	for i, entry := range f.Ingredients {
		ing, err := entry.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: ingredient #%d: %v", domain.ErrInvalidCatalog, i, err)
		}
		if _, dup := byID[ing.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate ingredient id %q", domain.ErrInvalidCatalog, ing.ID)
		}
		byID[ing.ID] = ing
		byName[nameKey(ing.Name)] = ing
		ingredients = append(ingredients, ing)
	}

	recipes := make([]domain.Recipe, 0, len(f.Recipes))
	seen := make(map[string]bool, len(f.Recipes))
	for i, entry := range f.Recipes {
		recipe, err := entry.toDomain(byID, byName)
		if err != nil {
			return nil, fmt.Errorf("%w: recipe #%d (%s): %v", domain.ErrInvalidCatalog, i, entry.Name, err)
		}
		if seen[recipe.ID] {
			return nil, fmt.Errorf("%w: duplicate recipe id %q", domain.ErrInvalidCatalog, recipe.ID)
		}
		seen[recipe.ID] = true
		recipes = append(recipes, recipe)
	}

	return &Catalog{Ingredients: ingredients, Recipes: recipes}, nil
}

func (e ingredientEntry) toDomain() (domain.Ingredient, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return domain.Ingredient{}, errors.New("name is required")
	}

	category := domain.IngredientCategory(e.Category)
	if !category.Valid() {
		return domain.Ingredient{}, fmt.Errorf("unknown category %q", e.Category)
	}

	if e.Seasonal != nil {
		if err := validateSeasonal(e.Seasonal); err != nil {
			return domain.Ingredient{}, err
		}
	}

	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}

	return domain.Ingredient{
		ID:          id,
		Name:        name,
		Category:    category,
		Subcategory: e.Subcategory,
		Seasonal:    e.Seasonal,
		IsFavorite:  e.Favorite,
		UserCreated: e.UserCreated,
	}, nil
}

func validateSeasonal(s *domain.SeasonalInfo) error {
	months := make(map[int]bool, len(s.Months))
	for _, m := range s.Months {
		if m < 1 || m > 12 {
			return fmt.Errorf("month %d out of range 1..12", m)
		}
		months[m] = true
	}
	for _, m := range s.PeakMonths {
		if !months[m] {
			return fmt.Errorf("peak month %d is not a season month", m)
		}
	}
	return nil
}

func (e recipeEntry) toDomain(byID, byName map[string]domain.Ingredient) (domain.Recipe, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return domain.Recipe{}, errors.New("name is required")
	}
	if e.PrepTime != nil && *e.PrepTime < 0 {
		return domain.Recipe{}, errors.New("prep_time must not be negative")
	}
	if e.CookTime != nil && *e.CookTime < 0 {
		return domain.Recipe{}, errors.New("cook_time must not be negative")
	}

	refs := make([]domain.RecipeIngredientRef, 0, len(e.Ingredients))
	for i, item := range e.Ingredients {
		ing, ok := resolve(item, byID, byName)
		if !ok {
			return domain.Recipe{}, fmt.Errorf("ingredient %q: %w", item.label(), domain.ErrNotFound)
		}
		order := i
		if item.OrderIndex != nil {
			order = *item.OrderIndex
		}
		refs = append(refs, domain.RecipeIngredientRef{
			IngredientID: ing.ID,
			Ingredient:   ing,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			Optional:     item.Optional,
			OrderIndex:   order,
		})
	}
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}

	recipe := domain.Recipe{
		ID:           id,
		Name:         name,
		Description:  e.Description,
		Category:     e.Category,
		Difficulty:   e.Difficulty,
		PrepTime:     e.PrepTime,
		CookTime:     e.CookTime,
		Servings:     e.Servings,
		IsFavorite:   e.Favorite,
		Ingredients:  refs,
		Instructions: e.Instructions,
	}
	recipe.Ingredients = recipe.SortedIngredients()
	return recipe, nil
}

func resolve(item recipeRefItem, byID, byName map[string]domain.Ingredient) (domain.Ingredient, bool) {
	if item.IngredientID != "" {
		ing, ok := byID[item.IngredientID]
		return ing, ok
	}
	ing, ok := byName[nameKey(item.Ingredient)]
	return ing, ok
}

func (i recipeRefItem) label() string {
	if i.IngredientID != "" {
		return i.IngredientID
	}
	return i.Ingredient
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
