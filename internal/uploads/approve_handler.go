package uploads

import (
	"fmt"
	"strings"
	"time"

	"homeoerp-backend/internal/audit"
	"homeoerp-backend/internal/catalog"
	"homeoerp-backend/internal/database"
	"homeoerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ApproveRequest struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"` // approve or reject
	Reason    string `json:"reason"`
}

// POST /api/uploads/approve
// The only path by which staged upload lines reach inventory. Approval runs
// in one transaction: vendor and missing products are created, then each
// line upserts its (product, batch) inventory row.
func ApproveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ApproveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.SessionID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
		}

		var session models.UploadSession
		if err := database.DB.Preload("Items").First(&session, "id = ?", body.SessionID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Upload session not found")
		}
		if session.Status != models.UploadStatusAwaitingApproval {
			return fiber.NewError(fiber.StatusConflict, "Session already processed")
		}

		switch body.Action {
		case "reject":
			return rejectSession(c, &session, body.Reason)
		case "approve":
			return approveSession(c, &session)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "action must be approve or reject")
		}
	}
}

func rejectSession(c *fiber.Ctx, session *models.UploadSession, reason string) error {
	now := time.Now()
	session.Status = models.UploadStatusRejected
	session.RejectionReason = reason
	session.ApprovedBy = "system"
	session.ApprovedAt = &now

	if err := database.DB.Save(session).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to reject session")
	}

	_ = audit.WriteLog(audit.LogOptions{
		UserName:    "system",
		EntityType:  "upload_session",
		EntityID:    session.ID,
		Action:      models.AuditActionReject,
		Description: fmt.Sprintf("Upload rejected (invoice %s): %s", session.InvoiceNumber, reason),
	})

	return c.JSON(fiber.Map{"success": true, "message": "Upload rejected"})
}

func approveSession(c *fiber.Ctx, session *models.UploadSession) error {
	applied := 0
	created := 0

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if session.VendorName != "" {
			if _, err := catalog.GetOrCreateVendor(tx, session.VendorName, session.VendorGSTIN); err != nil {
				return fmt.Errorf("vendor: %w", err)
			}
		}

		for _, item := range session.Items {
			productID := item.MatchedProductID
			if productID == nil {
				id, err := createProductFromItem(tx, item)
				if err != nil {
					return fmt.Errorf("row %d: create product: %w", item.RowNumber, err)
				}
				productID = &id
				created++
			}

			batchNumber := item.BatchNumber
			if batchNumber == "" {
				// No printed batch on the line: fold into a synthetic lot so
				// the (product, batch) key stays unique.
				batchNumber = "NOBATCH"
			}

			err := tx.Exec(`
				INSERT INTO inventory_batches (
					product_id, batch_number, expiry_date, quantity, available_quantity,
					purchase_price, selling_price, mrp, rack_location, status, created_at, updated_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', 'active', NOW(), NOW())
				ON CONFLICT (product_id, batch_number)
				DO UPDATE SET quantity = inventory_batches.quantity + EXCLUDED.quantity,
				              available_quantity = inventory_batches.available_quantity + EXCLUDED.quantity,
				              purchase_price = EXCLUDED.purchase_price,
				              mrp = EXCLUDED.mrp,
				              status = 'active',
				              updated_at = NOW()
			`, *productID, batchNumber, item.ExpiryDate, item.Quantity, item.Quantity,
				item.UnitPrice, item.MRP, item.MRP).Error
			if err != nil {
				return fmt.Errorf("row %d: upsert batch: %w", item.RowNumber, err)
			}
			applied++
		}

		now := time.Now()
		session.Status = models.UploadStatusApproved
		session.ApprovedBy = "system"
		session.ApprovedAt = &now
		if err := tx.Save(session).Error; err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		return nil
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Approval failed: %v", err))
	}

	_ = audit.WriteLog(audit.LogOptions{
		UserName:    "system",
		EntityType:  "upload_session",
		EntityID:    session.ID,
		Action:      models.AuditActionApprove,
		Description: fmt.Sprintf("Upload approved (invoice %s): %d batches applied, %d products created", session.InvoiceNumber, applied, created),
	})

	return c.JSON(fiber.Map{
		"success":          true,
		"message":          "Upload approved and imported",
		"batches_applied":  applied,
		"products_created": created,
	})
}

// createProductFromItem creates a catalog product for an unmatched line.
// HSN code and GST rate are resolved here, once, and stored.
func createProductFromItem(tx *gorm.DB, item models.UploadItem) (uint, error) {
	hsnCode := item.HSNCode
	gstRate := 0.0
	if hsnCode == "" {
		hsnCode, gstRate = DetermineHSN(item.ProductName, item.Form)
	} else {
		_, gstRate = DetermineHSN(item.ProductName, item.Form)
	}

	brandID, err := catalog.GetOrCreateBrand(tx, item.Brand)
	if err != nil {
		return 0, err
	}
	categoryID, err := catalog.GetOrCreateCategory(tx, DetermineCategory(item.ProductName, item.Form))
	if err != nil {
		return 0, err
	}
	hsnID, err := catalog.GetOrCreateHSNCode(tx, hsnCode, gstRate)
	if err != nil {
		return 0, err
	}

	barcode := strings.ToUpper(strings.ReplaceAll(item.ProductCode, " ", ""))

	p := models.Product{
		Name:         item.ProductName,
		SKU:          item.ProductCode,
		Barcode:      barcode,
		BrandID:      brandID,
		CategoryID:   categoryID,
		HSNCodeID:    hsnID,
		GSTRate:      gstRate,
		Potency:      item.Potency,
		Form:         item.Form,
		PackSize:     item.PackSize,
		Unit:         item.Unit,
		MRP:          item.MRP,
		SellingPrice: item.MRP,
		IsActive:     true,
	}
	if err := tx.Create(&p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}
