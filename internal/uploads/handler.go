package uploads

import (
	"fmt"
	"io"

	"homeoerp-backend/internal/database"
	"homeoerp-backend/internal/logger"
	"homeoerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InvoiceTotals struct {
	Subtotal               float64            `json:"subtotal"`
	TaxAmount              float64            `json:"tax_amount"`
	GSTBreakup             map[string]float64 `json:"gst_breakup"`
	EstimatedProfitPercent float64            `json:"estimated_profit_percent"`
}

type InvoiceResult struct {
	SessionID      string        `json:"session_id,omitempty"`
	InvoiceNumber  string        `json:"invoice_number"`
	ItemCount      int           `json:"item_count"` // every data row seen for this invoice
	MatchedCount   int           `json:"matched_count"`
	UnmatchedCount int           `json:"unmatched_count"`
	Errors         []RowError    `json:"errors"`
	Totals         InvoiceTotals `json:"totals"`
	Error          string        `json:"error,omitempty"` // set when the invoice could not be staged
}

type invoiceGroup struct {
	invoiceNumber string
	lines         []ParsedLine
	errors        []RowError
}

// groupByInvoice splits parsed lines and row errors by invoice number, in
// first-seen order. Errors whose row never yielded an invoice number attach
// to the first invoice in the file.
func groupByInvoice(lines []ParsedLine, errs []RowError) []invoiceGroup {
	index := map[string]int{}
	var groups []invoiceGroup
	at := func(invoiceNo string) int {
		if i, ok := index[invoiceNo]; ok {
			return i
		}
		index[invoiceNo] = len(groups)
		groups = append(groups, invoiceGroup{invoiceNumber: invoiceNo})
		return len(groups) - 1
	}

	for _, line := range lines {
		i := at(line.InvoiceNumber)
		groups[i].lines = append(groups[i].lines, line)
	}
	for _, rowErr := range errs {
		invoiceNo := rowErr.InvoiceNumber
		if invoiceNo == "" && len(groups) > 0 {
			invoiceNo = groups[0].invoiceNumber
		}
		i := at(invoiceNo)
		groups[i].errors = append(groups[i].errors, rowErr)
	}
	return groups
}

// POST /api/uploads/purchase
// Parses the uploaded file, matches lines against the catalog and stages one
// UploadSession per invoice number. Inventory is untouched until approval.
func UploadPurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No file provided")
		}

		f, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to open file")
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to read file")
		}

		lines, rowErrs, totalRows, err := ParseUpload(string(content))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Parse error: %v", err))
		}
		if totalRows == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "File is empty or has no data rows")
		}

		catalog, err := loadCatalog()
		if err != nil {
			logger.L.Error("catalog load failed", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load product catalog")
		}

		groups := groupByInvoice(lines, rowErrs)

		results := make([]InvoiceResult, 0, len(groups))
		staged := 0
		for _, g := range groups {
			errsForInvoice := g.errors
			if errsForInvoice == nil {
				errsForInvoice = []RowError{}
			}

			if len(g.lines) == 0 {
				// Every row of this invoice errored; report it, stage nothing.
				results = append(results, InvoiceResult{
					InvoiceNumber: g.invoiceNumber,
					ItemCount:     len(errsForInvoice),
					Errors:        errsForInvoice,
					Error:         "no valid rows",
				})
				continue
			}

			result, err := stageInvoice(fileHeader.Filename, fileHeader.Size, g.invoiceNumber, g.lines, errsForInvoice, catalog)
			if err != nil {
				logger.L.Error("invoice staging failed",
					zap.String("invoice", g.invoiceNumber), zap.Error(err))
				results = append(results, InvoiceResult{
					InvoiceNumber: g.invoiceNumber,
					ItemCount:     len(g.lines) + len(errsForInvoice),
					Errors:        errsForInvoice,
					Error:         "staging failed",
				})
				continue
			}
			staged++
			results = append(results, result)
		}

		if staged == 0 && len(lines) > 0 {
			return fiber.NewError(fiber.StatusInternalServerError, "No invoice could be staged from the file")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": fmt.Sprintf("Processed %d invoice(s)", len(results)),
			"results": results,
		})
	}
}

func loadCatalog() ([]CatalogProduct, error) {
	var catalog []CatalogProduct
	err := database.DB.Model(&models.Product{}).
		Select("id, name, sku").
		Where("is_active = ?", true).
		Scan(&catalog).Error
	return catalog, err
}

// stageInvoice persists one UploadSession with its items, awaiting approval.
func stageInvoice(fileName string, fileSize int64, invoiceNo string, items []ParsedLine, rowErrs []RowError, catalog []CatalogProduct) (InvoiceResult, error) {
	totals := InvoiceTotals{GSTBreakup: map[string]float64{}}
	profitNum, profitDen := 0.0, 0.0

	for _, it := range items {
		totals.Subtotal += it.TotalAmount
		tax := it.Quantity * it.UnitPrice * it.TaxPct / 100
		totals.TaxAmount += tax
		totals.GSTBreakup[fmt.Sprintf("%.0f", it.TaxPct)] += tax

		if it.MRP > 0 && it.Quantity > 0 {
			profitNum += (it.MRP - it.UnitPrice) * it.Quantity
			profitDen += it.MRP * it.Quantity
		}
	}
	if profitDen > 0 {
		totals.EstimatedProfitPercent = profitNum / profitDen * 100
	}

	matched, unmatched := 0, 0
	session := models.UploadSession{
		ID:            uuid.New().String(),
		FileName:      fileName,
		FileSize:      fileSize,
		InvoiceNumber: invoiceNo,
		TotalRows:     len(items) + len(rowErrs),
		ErrorCount:    len(rowErrs),
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.TaxAmount,
		Status:        models.UploadStatusAwaitingApproval,
	}
	if len(items) > 0 {
		first := items[0]
		session.VendorName = first.SupplierName
		session.VendorGSTIN = first.SupplierGSTIN
		session.InvoiceDate = first.InvoiceDate
	}

	uploadItems := make([]models.UploadItem, 0, len(items))
	for _, it := range items {
		productID, matchType := MatchProduct(it, catalog)
		if matchType == models.MatchTypeUnmatched {
			unmatched++
		} else {
			matched++
		}
		uploadItems = append(uploadItems, models.UploadItem{
			RowNumber:        it.RowNumber,
			ProductCode:      it.ProductCode,
			ProductName:      it.ProductName,
			Brand:            it.Brand,
			Potency:          it.Potency,
			Form:             it.Form,
			PackSize:         it.PackSize,
			Unit:             it.Unit,
			HSNCode:          it.HSNCode,
			BatchNumber:      it.BatchNumber,
			ExpiryDate:       it.ExpiryDate,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			MRP:              it.MRP,
			DiscountPct:      it.DiscountPct,
			TaxPct:           it.TaxPct,
			TotalAmount:      it.TotalAmount,
			MatchedProductID: productID,
			MatchType:        matchType,
		})
	}
	session.MatchedCount = matched
	session.UnmatchedCount = unmatched

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		for i := range uploadItems {
			uploadItems[i].SessionID = session.ID
		}
		if len(uploadItems) > 0 {
			if err := tx.Create(&uploadItems).Error; err != nil {
				return fmt.Errorf("create items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return InvoiceResult{}, err
	}

	if rowErrs == nil {
		rowErrs = []RowError{}
	}
	return InvoiceResult{
		SessionID:      session.ID,
		InvoiceNumber:  invoiceNo,
		ItemCount:      len(items) + len(rowErrs),
		MatchedCount:   matched,
		UnmatchedCount: unmatched,
		Errors:         rowErrs,
		Totals:         totals,
	}, nil
}

// GET /api/uploads/sessions?status=
func ListSessionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.UploadSession{}).Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var sessions []models.UploadSession
		if err := q.Find(&sessions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list upload sessions")
		}
		return c.JSON(sessions)
	}
}

// GET /api/uploads/sessions/:id
func GetSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var session models.UploadSession
		if err := database.DB.Preload("Items").First(&session, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Upload session not found")
		}
		return c.JSON(session)
	}
}
