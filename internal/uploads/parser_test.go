package uploads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standardCSV = `Invoice Number,Invoice Date,Supplier Name,Supplier GSTIN,Product Code,Product Name,Brand,Potency,Form,Size,Unit,HSN Code,Batch Number,Expiry Date,Quantity,Unit Price,MRP,Discount %,Tax %,Total Amount
INV-001,2025-04-10,Sharda Homeo,27AABCS1234A1Z5,ARM-200,Arnica Montana 200C,SBL,200C,Dilution,30ml,ml,30049014,B2301,2027-03-01,10,42.50,85,10,5,425.00
INV-001,2025-04-10,Sharda Homeo,27AABCS1234A1Z5,NUX-30,Nux Vomica 30C,SBL,30C,Dilution,30ml,ml,30049014,B2302,2026-11-01,5,40,80,10,5,200.00
`

func TestParseStandardCSV(t *testing.T) {
	lines, errs, total, err := ParseUpload(standardCSV)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, 2, total)
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, "INV-001", first.InvoiceNumber)
	assert.Equal(t, "Sharda Homeo", first.SupplierName)
	assert.Equal(t, "ARM-200", first.ProductCode)
	assert.Equal(t, "Arnica Montana 200C", first.ProductName)
	assert.Equal(t, 10.0, first.Quantity)
	assert.Equal(t, 42.5, first.UnitPrice)
	assert.Equal(t, 425.0, first.TotalAmount)
	require.NotNil(t, first.ExpiryDate)
	assert.Equal(t, "2027-03-01", first.ExpiryDate.Format("2006-01-02"))
}

func TestParseCollectsRowErrorsWithoutAborting(t *testing.T) {
	csv := `Invoice Number,Product Name,Quantity,Unit Price
INV-002,Arnica Montana 200C,10,42.50
INV-002,,5,40
INV-002,Nux Vomica 30C,abc,40
INV-002,Belladonna 30C,5,
INV-002,Pulsatilla 200C,3,31
`
	lines, errs, total, err := ParseUpload(csv)
	require.NoError(t, err)

	assert.Equal(t, 5, total)
	assert.Len(t, lines, 2)
	require.Len(t, errs, 3)
	assert.Equal(t, 2, errs[0].Row)
	assert.Contains(t, errs[0].Message, "product name")
	assert.Contains(t, errs[1].Message, "quantity")
	assert.Contains(t, errs[2].Message, "unit price")
	for _, e := range errs {
		assert.Equal(t, "INV-002", e.InvoiceNumber)
	}
}

func TestParseTagsErrorsWithTheirInvoice(t *testing.T) {
	csv := `Invoice Number,Product Name,Quantity,Unit Price
INV-A,Arnica Montana 200C,10,42.50
INV-B,Nux Vomica 30C,5,40
INV-B,Belladonna 30C,abc,40
`
	lines, errs, total, err := ParseUpload(csv)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, lines, 2)
	require.Len(t, errs, 1)
	assert.Equal(t, "INV-B", errs[0].InvoiceNumber)
}

func TestParseDefaultsTotalAmount(t *testing.T) {
	csv := `Invoice Number,Product Name,Quantity,Unit Price
INV-003,Arnica Montana 200C,4,25
`
	lines, _, _, err := ParseUpload(csv)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 100.0, lines[0].TotalAmount)
}

func TestParseClampsNegativePrices(t *testing.T) {
	csv := `Invoice Number,Product Name,Quantity,Unit Price,MRP
INV-004,Arnica Montana 200C,4,-25,-85
`
	lines, errs, _, err := ParseUpload(csv)
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, lines, 1)
	assert.Equal(t, 0.0, lines[0].UnitPrice)
	assert.Equal(t, 0.0, lines[0].MRP)
}

func TestParseEmptyFile(t *testing.T) {
	_, _, _, err := ParseUpload("Invoice Number,Product Name\n")
	assert.Error(t, err)
}

func TestParseMargERP(t *testing.T) {
	content := "<MARGERP FORMAT>\n" +
		"H,1,INV-777,10042025,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,x,Sharda Homeo,27AABCS1234A1Z5\n" +
		"T,1,SBL,ARM-200,x,Arnica Montana Dilution 200C,30ml,x,B2301,01032027,x,x,5,x,85,x,x,x,x,x,10,x,10,x,x,765,38.25\n"

	lines, errs, total, err := ParseUpload(content)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, 1, total)
	require.Len(t, lines, 1)

	l := lines[0]
	assert.Equal(t, "INV-777", l.InvoiceNumber)
	assert.Equal(t, "Sharda Homeo", l.SupplierName)
	assert.Equal(t, "ARM-200", l.ProductCode)
	assert.Equal(t, "Arnica Montana Dilution 200C", l.ProductName)
	assert.Equal(t, "200C", l.Potency)
	assert.Equal(t, "Dilution", l.Form)
	assert.Equal(t, 10.0, l.Quantity)
	assert.Equal(t, 85.0, l.MRP)
	assert.Equal(t, 76.5, l.UnitPrice) // MRP less 10% discount
	require.NotNil(t, l.ExpiryDate)
	assert.Equal(t, "2027-03-01", l.ExpiryDate.Format("2006-01-02"))
	require.NotNil(t, l.InvoiceDate)
	assert.Equal(t, "2025-04-10", l.InvoiceDate.Format("2006-01-02"))
}

func TestParseMargDateZeroMeansNoDate(t *testing.T) {
	assert.Nil(t, parseMargDate("00000000"))
	assert.Nil(t, parseMargDate("2025"))
	got := parseMargDate("15062025")
	require.NotNil(t, got)
	assert.Equal(t, "2025-06-15", got.Format("2006-01-02"))
}
