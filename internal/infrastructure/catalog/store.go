package catalog

import (
	"sync"

	"go.uber.org/zap"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// Store holds the current catalog snapshot for request handlers.
// Readers get the snapshot slices; they must not modify them.
type Store struct {
	mutex   sync.RWMutex
	current *Catalog
	byID    map[string]domain.Ingredient
	log     *zap.Logger
}

// NewStore creates a store serving the given catalog. A nil catalog is
// treated as empty.
func NewStore(initial *Catalog, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{log: log}
	s.swap(initial)
	return s
}

// Recipes returns every recipe in catalog order
func (s *Store) Recipes() []domain.Recipe {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current.Recipes
}

// Ingredients returns every ingredient in catalog order
func (s *Store) Ingredients() []domain.Ingredient {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current.Ingredients
}

// IngredientsByID resolves ids in order. Unknown ids are skipped and logged.
func (s *Store) IngredientsByID(ids []string) []domain.Ingredient {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]domain.Ingredient, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		ing, ok := s.byID[id]
		if !ok {
			s.log.Debug("unknown ingredient id ignored", zap.String("id", id))
			continue
		}
		out = append(out, ing)
	}
	return out
}

// Replace swaps in a new catalog snapshot
func (s *Store) Replace(next *Catalog) {
	s.swap(next)
	s.log.Info("catalog replaced",
		zap.Int("recipes", len(s.Recipes())),
		zap.Int("ingredients", len(s.Ingredients())))
}

func (s *Store) swap(next *Catalog) {
	if next == nil {
		next = &Catalog{}
	}
	byID := make(map[string]domain.Ingredient, len(next.Ingredients))
	for _, ing := range next.Ingredients {
		byID[ing.ID] = ing
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.current = next
	s.byID = byID
}
