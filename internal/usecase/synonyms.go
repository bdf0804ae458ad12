package usecase

import (
	"strings"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// DefaultSynonymTable groups ingredient names that can stand in for each other.
// Bump Version whenever a group changes so cached results can be reasoned about.
var DefaultSynonymTable = domain.SynonymTable{
	Version: "2024.1",
	Groups: []domain.SynonymGroup{
		{Tag: "tomate", Names: []string{"tomate", "tomates", "tomate cerise", "tomates cerises"}},
		{Tag: "oignon", Names: []string{"oignon", "oignons", "échalote", "échalotes"}},
		{Tag: "viande-rouge", Names: []string{"bœuf", "veau", "porc"}},
		{Tag: "volaille", Names: []string{"poulet", "dinde", "canard"}},
		{Tag: "pomme-de-terre", Names: []string{"pomme de terre", "pommes de terre", "patate", "patates"}},
		{Tag: "carotte", Names: []string{"carotte", "carottes"}},
		{Tag: "ail", Names: []string{"ail", "gousse d'ail", "gousses d'ail"}},
		{Tag: "herbes", Names: []string{"persil", "coriandre", "ciboulette", "cerfeuil"}},
		{Tag: "agrumes", Names: []string{"citron", "citron vert", "citrons"}},
		{Tag: "matiere-grasse", Names: []string{"beurre", "margarine", "huile d'olive"}},
		{Tag: "creme", Names: []string{"crème fraîche", "crème liquide", "crème", "fromage blanc"}},
		{Tag: "lait", Names: []string{"lait", "lait entier", "lait demi-écrémé", "lait écrémé"}},
		{Tag: "fromage-rape", Names: []string{"gruyère", "emmental", "comté", "parmesan"}},
		{Tag: "poisson-blanc", Names: []string{"cabillaud", "colin", "merlu", "lieu"}},
		{Tag: "poisson-gras", Names: []string{"saumon", "truite", "maquereau"}},
		{Tag: "courge", Names: []string{"courgette", "courgettes", "aubergine", "aubergines"}},
		{Tag: "pates", Names: []string{"pâtes", "spaghetti", "tagliatelles", "penne"}},
		{Tag: "sucre", Names: []string{"sucre", "sucre roux", "cassonade", "miel"}},
	},
}

// synonymIndex maps a normalized name to the tags of every group containing it.
type synonymIndex map[string][]string

func newSynonymIndex(table domain.SynonymTable) synonymIndex {
	index := make(synonymIndex)
	for _, group := range table.Groups {
		for _, name := range group.Names {
			key := normalizeName(name)
			if key == "" {
				continue
			}
			index[key] = append(index[key], group.Tag)
		}
	}
	return index
}

// similar reports whether both names belong to a common synonym group
func (idx synonymIndex) similar(a, b string) (string, bool) {
	tagsA := idx[normalizeName(a)]
	if len(tagsA) == 0 {
		return "", false
	}
	tagsB := idx[normalizeName(b)]
	for _, ta := range tagsA {
		for _, tb := range tagsB {
			if ta == tb {
				return ta, true
			}
		}
	}
	return "", false
}

// normalizeName lowercases and collapses whitespace for name comparison
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
