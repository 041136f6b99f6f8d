package uploads

import (
	"testing"

	"homeoerp-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = []CatalogProduct{
	{ID: 1, Name: "Arnica Montana 200C", SKU: "ARM-200"},
	{ID: 2, Name: "Nux Vomica 30C", SKU: "NUX-30"},
	{ID: 3, Name: "Belladonna", SKU: ""},
	{ID: 4, Name: "BC-12", SKU: "BC12"},
}

func TestMatchBySKUIgnoresCaseAndWhitespace(t *testing.T) {
	line := ParsedLine{ProductCode: "  arm-200 ", ProductName: "Completely Different Name"}
	id, matchType := MatchProduct(line, testCatalog)
	require.NotNil(t, id)
	assert.Equal(t, uint(1), *id)
	assert.Equal(t, models.MatchTypeSKU, matchType)
}

func TestMatchByExactName(t *testing.T) {
	line := ParsedLine{ProductName: "  NUX  VOMICA 30c "}
	id, matchType := MatchProduct(line, testCatalog)
	require.NotNil(t, id)
	assert.Equal(t, uint(2), *id)
	assert.Equal(t, models.MatchTypeName, matchType)
}

func TestMatchFuzzyContainment(t *testing.T) {
	line := ParsedLine{ProductName: "SBL Belladonna Dilution 30ml"}
	id, matchType := MatchProduct(line, testCatalog)
	require.NotNil(t, id)
	assert.Equal(t, uint(3), *id)
	assert.Equal(t, models.MatchTypeFuzzy, matchType)
}

func TestMatchRejectsShortFuzzyMatches(t *testing.T) {
	// "bc-7" neither contains nor is contained by any catalog name, and
	// short near-misses like "bc-12" must not win on prefix overlap.
	line := ParsedLine{ProductName: "BC-7"}
	id, matchType := MatchProduct(line, testCatalog)
	assert.Nil(t, id)
	assert.Equal(t, models.MatchTypeUnmatched, matchType)
}

func TestMatchUnmatchedIsFlaggedNotDropped(t *testing.T) {
	line := ParsedLine{ProductCode: "ZZZ-1", ProductName: "Completely Unknown Remedy"}
	id, matchType := MatchProduct(line, testCatalog)
	assert.Nil(t, id)
	assert.Equal(t, models.MatchTypeUnmatched, matchType)
}

func TestDetermineHSN(t *testing.T) {
	code, rate := DetermineHSN("Arnica Montana 200C", "Dilution")
	assert.Equal(t, "30049014", code)
	assert.Equal(t, 5.0, rate)

	code, rate = DetermineHSN("Arnica Hair Oil", "")
	assert.Equal(t, "330499", code)
	assert.Equal(t, 18.0, rate)
}

func TestDetermineCategory(t *testing.T) {
	assert.Equal(t, "Dilutions", DetermineCategory("Arnica Montana Dilution 200C", ""))
	assert.Equal(t, "Mother Tinctures", DetermineCategory("Calendula Mother Tincture", ""))
	assert.Equal(t, "Tablets", DetermineCategory("Bio Combination tablets", "Tablets"))
	assert.Equal(t, "Patent Medicines", DetermineCategory("Five Phos Tonic", ""))
}

func TestExtractPotencyAndForm(t *testing.T) {
	assert.Equal(t, "200C", ExtractPotency("Arnica Montana Dilution 200C"))
	assert.Equal(t, "", ExtractPotency("Arnica Montana"))
	assert.Equal(t, "Dilution", ExtractForm("Arnica Montana Dilution 200C"))
	assert.Equal(t, "Mother Tincture", ExtractForm("Calendula Q"))
	assert.Equal(t, "Liquid", ExtractForm("Five Phos Tonic"))
}
