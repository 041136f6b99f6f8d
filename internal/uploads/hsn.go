package uploads

import "strings"

// Default HSN classification for homeopathic medicines under Indian GST.
const (
	hsnMedicine     = "30049014"
	gstRateMedicine = 5.0
	hsnCosmetic     = "330499"
	gstRateCosmetic = 18.0
)

var cosmeticKeywords = []string{
	"shampoo", "soap", "toothpaste", "facewash", "hair oil",
	"lotion", "cream", "deodorant", "cosmetic", "beauty",
}

// DetermineHSN picks the HSN code and GST rate for a line once, at
// ingestion. The result is stored on the product; nothing re-derives GST
// from free text afterwards.
func DetermineHSN(productName, form string) (string, float64) {
	haystack := strings.ToLower(productName + " " + form)
	for _, kw := range cosmeticKeywords {
		if strings.Contains(haystack, kw) {
			return hsnCosmetic, gstRateCosmetic
		}
	}
	return hsnMedicine, gstRateMedicine
}

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Tablets", []string{"tablet", "tabs"}},
	{"Dilutions", []string{"dilution"}},
	{"Mother Tinctures", []string{"mother tincture", "mother tinc"}},
	{"Ointments & Creams", []string{"ointment", "cream", "gel"}},
	{"Drops", []string{"drop"}},
	{"Syrups", []string{"syrup", "syp"}},
	{"Oils", []string{"oil"}},
	{"Bio Combination", []string{"bc-"}},
	{"Biochemic", []string{"biochemic"}},
}

// DetermineCategory maps a product name/form onto the shop's category tree.
func DetermineCategory(productName, form string) string {
	name := strings.ToLower(productName)
	formType := strings.ToLower(form)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(formType, kw) || strings.Contains(name, kw) {
				return entry.category
			}
		}
	}
	return "Patent Medicines"
}

// ExtractPotency pulls the potency that follows "dilution" in names like
// "Arnica Montana Dilution 200C".
func ExtractPotency(name string) string {
	parts := strings.Fields(name)
	for i, p := range parts {
		if strings.EqualFold(p, "dilution") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func ExtractForm(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "dilution"):
		return "Dilution"
	case strings.Contains(lower, "mother tinc"), strings.HasSuffix(lower, " q"):
		return "Mother Tincture"
	case strings.Contains(lower, "tablet"), strings.Contains(lower, "tabs"):
		return "Tablets"
	case strings.Contains(lower, "drop"):
		return "Drops"
	case strings.Contains(lower, "syrup"), strings.Contains(lower, "syp"):
		return "Syrup"
	case strings.Contains(lower, "ointment"), strings.Contains(lower, "cream"):
		return "Ointment"
	default:
		return "Liquid"
	}
}

func ExtractUnit(packSize, name string) string {
	lower := strings.ToLower(packSize + " " + name)
	switch {
	case strings.Contains(lower, "ml"):
		return "ml"
	case strings.Contains(lower, "tab"):
		return "tabs"
	case strings.Contains(lower, "gm"), strings.Contains(lower, "g"):
		return "gm"
	default:
		return "ml"
	}
}
