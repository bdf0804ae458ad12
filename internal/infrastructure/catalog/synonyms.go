package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// LoadSynonymFile reads a synonym table from a YAML file
func LoadSynonymFile(path string) (domain.SynonymTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.SynonymTable{}, fmt.Errorf("failed to open synonym table: %w", err)
	}
	defer f.Close()

	return LoadSynonyms(f)
}

// LoadSynonyms decodes a synonym table. Every group needs a tag and at least
// two names.
func LoadSynonyms(r io.Reader) (domain.SynonymTable, error) {
	var table domain.SynonymTable
	if err := yaml.NewDecoder(r).Decode(&table); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.SynonymTable{}, fmt.Errorf("%w: empty synonym table", domain.ErrInvalidCatalog)
		}
		return domain.SynonymTable{}, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	if len(table.Groups) == 0 {
		return domain.SynonymTable{}, fmt.Errorf("%w: synonym table has no groups", domain.ErrInvalidCatalog)
	}
	for i, group := range table.Groups {
		if strings.TrimSpace(group.Tag) == "" {
			return domain.SynonymTable{}, fmt.Errorf("%w: synonym group #%d has no tag", domain.ErrInvalidCatalog, i)
		}
		if len(group.Names) < 2 {
			return domain.SynonymTable{}, fmt.Errorf("%w: synonym group %q needs at least two names", domain.ErrInvalidCatalog, group.Tag)
		}
	}
	return table, nil
}
