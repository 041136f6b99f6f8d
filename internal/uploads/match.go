package uploads

import (
	"strings"

	"homeoerp-backend/internal/models"
)

// CatalogProduct: the slice of the product table matching needs. Handlers
// load these once per upload so matching stays a pure function.
type CatalogProduct struct {
	ID   uint
	Name string
	SKU  string
}

// minFuzzyScore: a containment match shorter than this is noise, not a match.
const minFuzzyScore = 5

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// MatchProduct resolves an invoice line against the catalog: exact SKU
// (case and whitespace insensitive), then exact normalized name, then
// substring containment scored by the catalog name's length. Unmatched rows
// are flagged, never dropped.
func MatchProduct(line ParsedLine, catalog []CatalogProduct) (*uint, models.MatchType) {
	code := normalize(line.ProductCode)
	if code != "" {
		for i := range catalog {
			if normalize(catalog[i].SKU) == code {
				return &catalog[i].ID, models.MatchTypeSKU
			}
		}
	}

	name := normalize(line.ProductName)
	if name == "" {
		return nil, models.MatchTypeUnmatched
	}

	for i := range catalog {
		if normalize(catalog[i].Name) == name {
			return &catalog[i].ID, models.MatchTypeName
		}
	}

	var best *CatalogProduct
	bestScore := 0
	for i := range catalog {
		candidate := normalize(catalog[i].Name)
		if candidate == "" {
			continue
		}
		if strings.Contains(name, candidate) || strings.Contains(candidate, name) {
			if score := len(candidate); score > bestScore {
				bestScore = score
				best = &catalog[i]
			}
		}
	}
	if best != nil && bestScore >= minFuzzyScore {
		return &best.ID, models.MatchTypeFuzzy
	}

	return nil, models.MatchTypeUnmatched
}
