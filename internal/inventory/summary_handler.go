package inventory

import (
	"strconv"

	"homeoerp-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

type StockSummary struct {
	TotalProducts   int     `json:"total_products"`
	TotalBatches    int     `json:"total_batches"`
	TotalStockValue float64 `json:"total_stock_value"`
	LowStockCount   int     `json:"low_stock_count"`
	OutOfStockCount int     `json:"out_of_stock_count"`
	ExpiringCount   int     `json:"expiring_count"` // next 90 days
	ExpiredCount    int     `json:"expired_count"`
}

// GET /api/inventory/stock-summary
func StockSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var summary StockSummary

		database.DB.Raw(`SELECT COUNT(*) FROM products WHERE is_active = true`).Scan(&summary.TotalProducts)
		database.DB.Raw(`SELECT COUNT(*) FROM inventory_batches WHERE status = 'active'`).Scan(&summary.TotalBatches)
		database.DB.Raw(`
			SELECT COALESCE(SUM(GREATEST(available_quantity, 0) * GREATEST(purchase_price, 0)), 0)
			FROM inventory_batches WHERE status = 'active'
		`).Scan(&summary.TotalStockValue)

		// Reorder level 0 means unset; fall back to the classifier default.
		database.DB.Raw(`
			SELECT COUNT(*) FROM (
				SELECT p.id
				FROM products p
				LEFT JOIN inventory_batches ib ON ib.product_id = p.id AND ib.status = 'active'
				WHERE p.is_active = true
				GROUP BY p.id, p.reorder_level
				HAVING COALESCE(SUM(ib.available_quantity), 0) > 0
				   AND COALESCE(SUM(ib.available_quantity), 0) <= GREATEST(p.reorder_level, ?)
			) low
		`, DefaultReorderLevel).Scan(&summary.LowStockCount)

		database.DB.Raw(`
			SELECT COUNT(*) FROM (
				SELECT p.id
				FROM products p
				LEFT JOIN inventory_batches ib ON ib.product_id = p.id AND ib.status = 'active'
				WHERE p.is_active = true
				GROUP BY p.id
				HAVING COALESCE(SUM(ib.available_quantity), 0) <= 0
			) out
		`).Scan(&summary.OutOfStockCount)

		database.DB.Raw(`
			SELECT COUNT(*) FROM inventory_batches
			WHERE status = 'active'
			  AND expiry_date IS NOT NULL
			  AND expiry_date BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '90 days'
			  AND available_quantity > 0
		`).Scan(&summary.ExpiringCount)

		// Expired batches may still carry status 'active' until the next
		// expiry refresh flips them, so match on the date, not the status.
		database.DB.Raw(`
			SELECT COUNT(*) FROM inventory_batches
			WHERE status IN ('active', 'expired')
			  AND expiry_date < CURRENT_DATE
			  AND available_quantity > 0
		`).Scan(&summary.ExpiredCount)

		return c.JSON(fiber.Map{"success": true, "summary": summary})
	}
}

type LowStockAlert struct {
	ProductID       uint    `json:"product_id"`
	ProductName     string  `json:"product_name"`
	SKU             string  `json:"sku"`
	CurrentStock    float64 `json:"current_stock"`
	ReorderLevel    int     `json:"reorder_level"`
	ReorderQuantity float64 `json:"reorder_quantity"`
	Severity        string  `json:"severity"` // critical, high, medium
}

// GET /api/inventory/alerts/low-stock?limit=
func LowStockAlertsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		if limit <= 0 || limit > 500 {
			limit = 50
		}

		var alerts []LowStockAlert
		err := database.DB.Raw(`
			SELECT p.id AS product_id,
			       p.name AS product_name,
			       p.sku,
			       COALESCE(SUM(ib.available_quantity), 0) AS current_stock,
			       GREATEST(p.reorder_level, ?) AS reorder_level,
			       GREATEST(GREATEST(p.reorder_level, ?) - COALESCE(SUM(ib.available_quantity), 0), 0) AS reorder_quantity,
			       CASE
			           WHEN COALESCE(SUM(ib.available_quantity), 0) <= 0 THEN 'critical'
			           WHEN COALESCE(SUM(ib.available_quantity), 0) < GREATEST(p.reorder_level, ?) * 0.3 THEN 'critical'
			           WHEN COALESCE(SUM(ib.available_quantity), 0) < GREATEST(p.reorder_level, ?) * 0.6 THEN 'high'
			           ELSE 'medium'
			       END AS severity
			FROM products p
			LEFT JOIN inventory_batches ib ON ib.product_id = p.id AND ib.status = 'active'
			WHERE p.is_active = true
			GROUP BY p.id, p.name, p.sku, p.reorder_level
			HAVING COALESCE(SUM(ib.available_quantity), 0) <= GREATEST(p.reorder_level, ?)
			ORDER BY current_stock ASC
			LIMIT ?
		`, DefaultReorderLevel, DefaultReorderLevel, DefaultReorderLevel, DefaultReorderLevel, DefaultReorderLevel, limit).Scan(&alerts).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch low stock alerts")
		}
		if alerts == nil {
			alerts = []LowStockAlert{}
		}

		return c.JSON(fiber.Map{"success": true, "data": alerts, "count": len(alerts)})
	}
}
