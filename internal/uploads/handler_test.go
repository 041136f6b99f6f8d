package uploads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByInvoiceKeepsErrorsWithTheirInvoice(t *testing.T) {
	lines := []ParsedLine{
		{RowNumber: 1, InvoiceNumber: "INV-A", ProductName: "Arnica Montana 200C", Quantity: 10},
		{RowNumber: 2, InvoiceNumber: "INV-B", ProductName: "Nux Vomica 30C", Quantity: 5},
	}
	errs := []RowError{
		{Row: 3, InvoiceNumber: "INV-B", Message: "missing or invalid quantity"},
	}

	groups := groupByInvoice(lines, errs)
	require.Len(t, groups, 2)

	assert.Equal(t, "INV-A", groups[0].invoiceNumber)
	assert.Len(t, groups[0].lines, 1)
	assert.Empty(t, groups[0].errors)

	assert.Equal(t, "INV-B", groups[1].invoiceNumber)
	assert.Len(t, groups[1].lines, 1)
	require.Len(t, groups[1].errors, 1)
	assert.Equal(t, 3, groups[1].errors[0].Row)
}

func TestGroupByInvoiceFallsBackForUntaggedErrors(t *testing.T) {
	lines := []ParsedLine{
		{RowNumber: 1, InvoiceNumber: "INV-A", ProductName: "Belladonna 30C", Quantity: 2},
	}
	errs := []RowError{
		{Row: 2, Message: "truncated transaction record"},
	}

	groups := groupByInvoice(lines, errs)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].errors, 1)
}

func TestGroupByInvoiceErrorOnlyInvoice(t *testing.T) {
	// An invoice whose every row errored still gets its own group so the
	// response can report it instead of silently dropping the rows.
	lines := []ParsedLine{
		{RowNumber: 1, InvoiceNumber: "INV-A", ProductName: "Arnica Montana 200C", Quantity: 10},
	}
	errs := []RowError{
		{Row: 2, InvoiceNumber: "INV-C", Message: "missing product name"},
	}

	groups := groupByInvoice(lines, errs)
	require.Len(t, groups, 2)
	assert.Equal(t, "INV-C", groups[1].invoiceNumber)
	assert.Empty(t, groups[1].lines)
	assert.Len(t, groups[1].errors, 1)
}
