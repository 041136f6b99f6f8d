package uploads

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParsedLine: the one canonical invoice-line shape. Every upload format is
// normalized into this before matching or staging sees it.
type ParsedLine struct {
	RowNumber int

	InvoiceNumber string
	InvoiceDate   *time.Time
	SupplierName  string
	SupplierGSTIN string

	ProductCode string
	ProductName string
	Brand       string
	Potency     string
	Form        string
	PackSize    string
	Unit        string
	HSNCode     string

	BatchNumber string
	ExpiryDate  *time.Time

	Quantity    float64
	UnitPrice   float64
	MRP         float64
	DiscountPct float64
	TaxPct      float64
	TotalAmount float64
}

// RowError: a skipped row with the reason. Row errors never abort the
// upload; the batch succeeds partially. InvoiceNumber is carried when the
// row got far enough to parse it, so errors land on the right invoice.
type RowError struct {
	Row           int    `json:"row"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	Message       string `json:"message"`
}

// margMarker flags the Marg ERP export format (H/T record lines).
const margMarker = "<MARGERP FORMAT>"

// ParseUpload detects the file format and returns the normalized lines, the
// per-row errors, and the total number of data rows seen (valid + errored).
func ParseUpload(content string) ([]ParsedLine, []RowError, int, error) {
	if strings.Contains(content, margMarker) {
		return parseMargERP(content)
	}
	return parseStandardCSV(content)
}

// parseStandardCSV reads a header-keyed CSV. Required per row: product name,
// a positive quantity, and a parseable unit price; anything else defaults.
func parseStandardCSV(content string) ([]ParsedLine, []RowError, int, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, 0, fmt.Errorf("csv must have a header row and at least one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var lines []ParsedLine
	var errs []RowError
	totalRows := 0

	for i := 1; i < len(rows); i++ {
		if len(rows[i]) == 0 || (len(rows[i]) == 1 && strings.TrimSpace(rows[i][0]) == "") {
			continue
		}
		totalRows++

		row := map[string]string{}
		for j, hdr := range headers {
			if j < len(rows[i]) {
				row[hdr] = strings.TrimSpace(rows[i][j])
			}
		}

		line := ParsedLine{
			RowNumber:     totalRows,
			InvoiceNumber: row["Invoice Number"],
			InvoiceDate:   parseDate(row["Invoice Date"]),
			SupplierName:  row["Supplier Name"],
			SupplierGSTIN: row["Supplier GSTIN"],
			ProductCode:   row["Product Code"],
			ProductName:   row["Product Name"],
			Brand:         row["Brand"],
			Potency:       row["Potency"],
			Form:          row["Form"],
			PackSize:      row["Size"],
			Unit:          row["Unit"],
			HSNCode:       row["HSN Code"],
			BatchNumber:   row["Batch Number"],
			ExpiryDate:    parseDate(row["Expiry Date"]),
		}

		if line.ProductName == "" {
			errs = append(errs, RowError{Row: totalRows, InvoiceNumber: line.InvoiceNumber, Message: "missing product name"})
			continue
		}

		qty, err := parseFloatStrict(row["Quantity"])
		if err != nil || qty <= 0 {
			errs = append(errs, RowError{Row: totalRows, InvoiceNumber: line.InvoiceNumber, Message: "missing or invalid quantity"})
			continue
		}
		unitPrice, err := parseFloatStrict(row["Unit Price"])
		if err != nil {
			errs = append(errs, RowError{Row: totalRows, InvoiceNumber: line.InvoiceNumber, Message: "missing or invalid unit price"})
			continue
		}

		line.Quantity = qty
		line.UnitPrice = clampNonNegative(unitPrice)
		line.MRP = clampNonNegative(parseFloatLenient(row["MRP"]))
		line.DiscountPct = parseFloatLenient(row["Discount %"])
		line.TaxPct = parseFloatLenient(row["Tax %"])
		line.TotalAmount = clampNonNegative(parseFloatLenient(row["Total Amount"]))
		if line.TotalAmount == 0 {
			line.TotalAmount = line.Quantity * line.UnitPrice
		}

		lines = append(lines, line)
	}

	return lines, errs, totalRows, nil
}

// parseMargERP reads the Marg ERP export: one H record per invoice carrying
// supplier/invoice fields, followed by T records with the line items at
// fixed field positions.
func parseMargERP(content string) ([]ParsedLine, []RowError, int, error) {
	var lines []ParsedLine
	var errs []RowError
	totalRows := 0

	var invoiceNumber, supplierName, supplierGSTIN string
	var invoiceDate *time.Time

	for _, raw := range strings.Split(content, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "<") {
			continue
		}

		switch raw[0] {
		case 'H':
			fields := strings.Split(raw, ",")
			invoiceNumber = safeGet(fields, 2)
			invoiceDate = parseMargDate(safeGet(fields, 3))
			supplierName = safeGet(fields, 31)
			supplierGSTIN = safeGet(fields, 32)

		case 'T':
			totalRows++
			fields := strings.Split(raw, ",")
			if len(fields) < 27 {
				errs = append(errs, RowError{Row: totalRows, InvoiceNumber: invoiceNumber, Message: "truncated transaction record"})
				continue
			}

			productName := strings.TrimSpace(safeGet(fields, 5))
			if productName == "" {
				errs = append(errs, RowError{Row: totalRows, InvoiceNumber: invoiceNumber, Message: "missing product name"})
				continue
			}

			qty, err := parseFloatStrict(safeGet(fields, 20))
			if err != nil || qty <= 0 {
				errs = append(errs, RowError{Row: totalRows, InvoiceNumber: invoiceNumber, Message: "missing or invalid quantity"})
				continue
			}

			mrp := clampNonNegative(parseFloatLenient(safeGet(fields, 14)))
			discountPct := parseFloatLenient(safeGet(fields, 22))
			packSize := safeGet(fields, 6)

			lines = append(lines, ParsedLine{
				RowNumber:     totalRows,
				InvoiceNumber: invoiceNumber,
				InvoiceDate:   invoiceDate,
				SupplierName:  supplierName,
				SupplierGSTIN: supplierGSTIN,
				ProductCode:   safeGet(fields, 3),
				ProductName:   productName,
				Brand:         safeGet(fields, 2),
				Potency:       ExtractPotency(productName),
				Form:          ExtractForm(productName),
				PackSize:      packSize,
				Unit:          ExtractUnit(packSize, productName),
				HSNCode:       safeGet(fields, 36),
				BatchNumber:   safeGet(fields, 8),
				ExpiryDate:    parseMargDate(safeGet(fields, 9)),
				Quantity:      qty,
				UnitPrice:     clampNonNegative(mrp * (100 - discountPct) / 100),
				MRP:           mrp,
				DiscountPct:   discountPct,
				TaxPct:        parseFloatLenient(safeGet(fields, 12)),
				TotalAmount:   clampNonNegative(parseFloatLenient(safeGet(fields, 25))),
			})
		}
	}

	return lines, errs, totalRows, nil
}

func safeGet(fields []string, index int) string {
	if index < len(fields) {
		return strings.TrimSpace(fields[index])
	}
	return ""
}

func parseFloatStrict(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

func parseFloatLenient(s string) float64 {
	v, err := parseFloatStrict(s)
	if err != nil {
		return 0
	}
	return v
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// parseDate accepts the date shapes seen in supplier CSVs.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "02-01-2006", "02/01/2006", "01/2006", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseMargDate reads the ddmmyyyy format Marg exports use. "00000000"
// means no date.
func parseMargDate(s string) *time.Time {
	if len(s) != 8 || s == "00000000" {
		return nil
	}
	t, err := time.Parse("02012006", s)
	if err != nil {
		return nil
	}
	return &t
}
