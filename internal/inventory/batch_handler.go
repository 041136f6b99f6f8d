package inventory

import (
	"fmt"
	"strconv"
	"time"

	"homeoerp-backend/internal/audit"
	"homeoerp-backend/internal/database"
	"homeoerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type BatchResponse struct {
	ID                uint    `json:"id"`
	ProductID         uint    `json:"product_id"`
	ProductName       string  `json:"product_name"`
	SKU               string  `json:"sku"`
	BatchNumber       string  `json:"batch_number"`
	ExpiryDate        *string `json:"expiry_date"`
	DaysToExpiry      *int    `json:"days_to_expiry"`
	ExpiryStatus      string  `json:"expiry_status"` // expired/critical/warning/good, "no_expiry" when undated
	Quantity          float64 `json:"quantity"`
	AvailableQuantity float64 `json:"available_quantity"`
	StockLevel        string  `json:"stock_level"`
	PurchasePrice     float64 `json:"purchase_price"`
	SellingPrice      float64 `json:"selling_price"`
	MRP               float64 `json:"mrp"`
	RackLocation      string  `json:"rack_location"`
	Status            string  `json:"status"`
}

func toBatchResponse(b models.InventoryBatch, now time.Time) BatchResponse {
	res := BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		ProductName:       b.Product.Name,
		SKU:               b.Product.SKU,
		BatchNumber:       b.BatchNumber,
		Quantity:          b.Quantity,
		AvailableQuantity: b.AvailableQuantity,
		StockLevel:        StockLevel(b.AvailableQuantity, b.Product.ReorderLevel),
		PurchasePrice:     b.PurchasePrice,
		SellingPrice:      b.SellingPrice,
		MRP:               b.MRP,
		RackLocation:      b.RackLocation,
		Status:            string(b.Status),
	}

	if days, ok := DaysToExpiry(b.ExpiryDate, now); ok {
		d := days
		s := b.ExpiryDate.Format("2006-01-02")
		res.DaysToExpiry = &d
		res.ExpiryDate = &s
		res.ExpiryStatus = ExpiryStatus(days)
	} else {
		res.ExpiryStatus = "no_expiry"
	}
	return res
}

// GET /api/inventory/batches?product_id=&status=&expiry_status=
func ListBatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Product").Model(&models.InventoryBatch{})

		if productID := c.Query("product_id"); productID != "" {
			q = q.Where("product_id = ?", productID)
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		} else {
			q = q.Where("status = ?", models.BatchStatusActive)
		}

		var batches []models.InventoryBatch
		if err := q.Order("expiry_date ASC NULLS LAST").Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list batches")
		}

		now := time.Now()
		res := make([]BatchResponse, 0, len(batches))
		expiryFilter := c.Query("expiry_status")
		for _, b := range batches {
			r := toBatchResponse(b, now)
			if expiryFilter != "" && r.ExpiryStatus != expiryFilter {
				continue
			}
			res = append(res, r)
		}
		return c.JSON(res)
	}
}

type AdjustBatchRequest struct {
	QuantityDelta float64 `json:"quantity_delta"` // positive = stock in, negative = stock out
	Reason        string  `json:"reason"`
}

// POST /api/inventory/batches/:id/adjust
// Mutates available quantity; a batch that reaches zero flips to depleted
// rather than being deleted.
func AdjustBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body AdjustBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.QuantityDelta == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity_delta must be non-zero")
		}

		var batch models.InventoryBatch
		if err := database.DB.Preload("Product").First(&batch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Batch not found")
		}

		before := batch
		newQty := batch.AvailableQuantity + body.QuantityDelta
		if newQty < 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Adjustment would make stock negative (available: %.2f)", batch.AvailableQuantity))
		}

		batch.AvailableQuantity = newQty
		if newQty == 0 {
			batch.Status = models.BatchStatusDepleted
		} else if batch.Status == models.BatchStatusDepleted {
			batch.Status = models.BatchStatusActive
		}

		if err := database.DB.Save(&batch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to adjust batch")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserName:    "system",
			EntityType:  "inventory_batch",
			EntityID:    strconv.FormatUint(uint64(batch.ID), 10),
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Stock adjustment %+.2f on %s / %s: %s", body.QuantityDelta, batch.Product.Name, batch.BatchNumber, body.Reason),
			Before:      before,
			After:       batch,
		})

		return c.JSON(toBatchResponse(batch, time.Now()))
	}
}
