package expiry

import (
	"fmt"
	"strconv"
	"time"

	"homeoerp-backend/internal/audit"
	"homeoerp-backend/internal/cache"
	"homeoerp-backend/internal/database"
	"homeoerp-backend/internal/inventory"
	"homeoerp-backend/internal/logger"
	"homeoerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	summaryCacheKey = "expiry_summary"
	summaryCacheTTL = 5 * time.Minute
)

// loadSnapshots pulls active batches joined with their products into the
// plain records the classifier consumes.
func loadSnapshots() ([]BatchSnapshot, error) {
	var rows []struct {
		BatchID     uint
		ProductID   uint
		ProductName string
		SKU         string
		BatchNumber string
		ExpiryDate  *time.Time
		Quantity    float64
		UnitCost    float64
	}
	err := database.DB.Raw(`
		SELECT ib.id AS batch_id,
		       ib.product_id,
		       p.name AS product_name,
		       p.sku,
		       ib.batch_number,
		       ib.expiry_date,
		       ib.available_quantity AS quantity,
		       ib.purchase_price AS unit_cost
		FROM inventory_batches ib
		JOIN products p ON p.id = ib.product_id
		WHERE ib.status IN ('active', 'expired')
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load batch snapshots: %w", err)
	}

	snaps := make([]BatchSnapshot, 0, len(rows))
	for _, r := range rows {
		snaps = append(snaps, BatchSnapshot(r))
	}
	return snaps, nil
}

// GET /api/expiry/summary
// Serves the cached summary when fresh; otherwise recomputes and caches it
// for the dashboard's 5-minute polling interval.
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cached Summary
		if cache.GetJSON(c.Context(), summaryCacheKey, &cached) {
			return c.JSON(fiber.Map{"success": true, "data": cached, "cached": true})
		}

		snaps, err := loadSnapshots()
		if err != nil {
			logger.L.Error("expiry summary failed", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute expiry summary")
		}

		summary := Classify(time.Now(), snaps, DefaultSampleLimit)
		cache.SetJSON(c.Context(), summaryCacheKey, summary, summaryCacheTTL)

		return c.JSON(fiber.Map{"success": true, "data": summary, "cached": false})
	}
}

// POST /api/expiry/refresh
// Recomputes the summary, rewrites the cache and upserts denormalized alert
// rows so the alert list can be filtered and paginated in SQL.
func RefreshHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snaps, err := loadSnapshots()
		if err != nil {
			logger.L.Error("expiry refresh failed", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to refresh expiry summary")
		}

		now := time.Now()
		summary := Classify(now, snaps, DefaultSampleLimit)

		// Batches past their date flip to expired status so stock views stop
		// counting them as sellable. They stay in the snapshot query, so the
		// expired bucket keeps reporting them.
		if ids := ExpiredBatchIDs(now, snaps); len(ids) > 0 {
			err := database.DB.Model(&models.InventoryBatch{}).
				Where("id IN ?", ids).
				Where("status <> ?", models.BatchStatusExpired).
				Update("status", models.BatchStatusExpired).Error
			if err != nil {
				logger.L.Warn("expired status flip failed", zap.Error(err))
			}
		}

		refreshed := 0
		for _, s := range snaps {
			days, ok := inventory.DaysToExpiry(s.ExpiryDate, now)
			if !ok || s.Quantity <= 0 {
				continue
			}
			label := WindowFor(days)
			if label == "" {
				continue
			}

			alert := models.ExpiryAlert{
				BatchID:      s.BatchID,
				ProductID:    s.ProductID,
				WindowLabel:  label,
				DaysToExpiry: days,
				AlertLevel:   inventory.ExpiryStatus(days),
				Quantity:     s.Quantity,
				TotalValue:   inventory.BatchValue(s.Quantity, s.UnitCost),
			}

			// Refresh only overwrites the computed fields; acknowledged and
			// resolved alerts keep their status.
			err := database.DB.Exec(`
				INSERT INTO expiry_alerts (batch_id, product_id, window_label, days_to_expiry, alert_level, quantity, total_value, status, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, 'active', NOW(), NOW())
				ON CONFLICT (batch_id)
				DO UPDATE SET window_label = EXCLUDED.window_label,
				              days_to_expiry = EXCLUDED.days_to_expiry,
				              alert_level = EXCLUDED.alert_level,
				              quantity = EXCLUDED.quantity,
				              total_value = EXCLUDED.total_value,
				              updated_at = NOW()
			`, alert.BatchID, alert.ProductID, alert.WindowLabel, alert.DaysToExpiry,
				alert.AlertLevel, alert.Quantity, alert.TotalValue).Error
			if err != nil {
				logger.L.Warn("alert upsert failed", zap.Uint("batch_id", s.BatchID), zap.Error(err))
				continue
			}
			refreshed++
		}

		cache.SetJSON(c.Context(), summaryCacheKey, summary, summaryCacheTTL)

		return c.JSON(fiber.Map{
			"success":         true,
			"message":         "Expiry summary refreshed",
			"alerts_refreshed": refreshed,
		})
	}
}

type AlertResponse struct {
	ID           uint    `json:"id"`
	BatchID      uint    `json:"batch_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	SKU          string  `json:"sku"`
	BatchNumber  string  `json:"batch_number"`
	ExpiryDate   string  `json:"expiry_date"`
	DaysToExpiry int     `json:"days_to_expiry"`
	WindowLabel  string  `json:"window_label"`
	AlertLevel   string  `json:"alert_level"`
	Quantity     float64 `json:"quantity"`
	TotalValue   float64 `json:"total_value"`
	Status       string  `json:"status"`
}

// GET /api/expiry/alerts?window=&alert_level=&status=&limit=&offset=
func ListAlertsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "100"))
		offset, _ := strconv.Atoi(c.Query("offset", "0"))
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		q := database.DB.Table("expiry_alerts ea").
			Select(`ea.id, ea.batch_id, ea.product_id, p.name AS product_name, p.sku,
				ib.batch_number, to_char(ib.expiry_date, 'YYYY-MM-DD') AS expiry_date,
				ea.days_to_expiry, ea.window_label, ea.alert_level, ea.quantity, ea.total_value, ea.status`).
			Joins("JOIN inventory_batches ib ON ib.id = ea.batch_id").
			Joins("JOIN products p ON p.id = ea.product_id").
			Where("ea.status = ?", c.Query("status", string(models.AlertStatusActive)))

		if window := c.Query("window"); window != "" {
			q = q.Where("ea.window_label = ?", window)
		}
		if level := c.Query("alert_level"); level != "" {
			q = q.Where("ea.alert_level = ?", level)
		}

		var alerts []AlertResponse
		if err := q.Order("ib.expiry_date ASC").Limit(limit).Offset(offset).Scan(&alerts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch expiry alerts")
		}
		if alerts == nil {
			alerts = []AlertResponse{}
		}

		return c.JSON(fiber.Map{"success": true, "data": alerts, "total": len(alerts)})
	}
}

// POST /api/expiry/alerts/:id/acknowledge
func AcknowledgeAlertHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var alert models.ExpiryAlert
		if err := database.DB.First(&alert, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Alert not found")
		}
		if alert.Status != models.AlertStatusActive {
			return fiber.NewError(fiber.StatusConflict, "Alert is not active")
		}

		now := time.Now()
		alert.Status = models.AlertStatusAcknowledged
		alert.AcknowledgedBy = "system"
		alert.AcknowledgedAt = &now
		if err := database.DB.Save(&alert).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to acknowledge alert")
		}

		return c.JSON(fiber.Map{"success": true, "message": "Alert acknowledged"})
	}
}

type ResolveAlertRequest struct {
	ResolutionAction string  `json:"resolution_action"` // sold, returned, disposed, transferred
	QtyAffected      float64 `json:"qty_affected"`
	Notes            string  `json:"notes"`
}

var resolutionActions = map[string]bool{
	"sold": true, "returned": true, "disposed": true, "transferred": true,
}

// POST /api/expiry/alerts/:id/resolve
func ResolveAlertHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body ResolveAlertRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if !resolutionActions[body.ResolutionAction] {
			return fiber.NewError(fiber.StatusBadRequest, "resolution_action must be one of sold, returned, disposed, transferred")
		}

		var alert models.ExpiryAlert
		if err := database.DB.First(&alert, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Alert not found")
		}
		if alert.Status == models.AlertStatusResolved {
			return fiber.NewError(fiber.StatusConflict, "Alert already resolved")
		}

		before := alert
		now := time.Now()
		alert.Status = models.AlertStatusResolved
		alert.ResolutionAction = body.ResolutionAction
		alert.ResolvedAt = &now
		if err := database.DB.Save(&alert).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to resolve alert")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserName:    "system",
			EntityType:  "expiry_alert",
			EntityID:    strconv.FormatUint(uint64(alert.ID), 10),
			Action:      models.AuditActionResolve,
			Description: fmt.Sprintf("Expiry alert resolved: %s (qty %.2f) %s", body.ResolutionAction, body.QtyAffected, body.Notes),
			Before:      before,
			After:       alert,
		})

		return c.JSON(fiber.Map{"success": true, "message": "Alert resolved"})
	}
}
