package main

import (
	"strings"

	"homeoerp-backend/internal/audit"
	"homeoerp-backend/internal/cache"
	"homeoerp-backend/internal/catalog"
	"homeoerp-backend/internal/config"
	"homeoerp-backend/internal/database"
	"homeoerp-backend/internal/expiry"
	"homeoerp-backend/internal/inventory"
	"homeoerp-backend/internal/logger"
	"homeoerp-backend/internal/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Sync()

	cfg := config.Load()
	if cfg.UsingDefaultDSN() {
		logger.L.Warn("DATABASE_DSN is the development default, configure it for production")
	}

	database.Init(cfg)
	cache.Init(cfg)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // invoice CSV uploads
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			logger.L.Error("unexpected error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(logger.RequestLogger())

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Catalog
	api.Get("/products", catalog.ListProductsHandler())
	api.Post("/products", catalog.CreateProductHandler())
	api.Put("/products/:id", catalog.UpdateProductHandler())
	api.Delete("/products/:id", catalog.DeleteProductHandler())
	api.Get("/brands", catalog.ListBrandsHandler())
	api.Get("/categories", catalog.ListCategoriesHandler())
	api.Get("/hsn-codes", catalog.ListHSNCodesHandler())

	// Inventory
	api.Get("/inventory/batches", inventory.ListBatchesHandler())
	api.Post("/inventory/batches/:id/adjust", inventory.AdjustBatchHandler())
	api.Get("/inventory/stock-summary", inventory.StockSummaryHandler())
	api.Get("/inventory/alerts/low-stock", inventory.LowStockAlertsHandler())

	// Expiry dashboard
	api.Get("/expiry/summary", expiry.SummaryHandler())
	api.Post("/expiry/refresh", expiry.RefreshHandler())
	api.Get("/expiry/alerts", expiry.ListAlertsHandler())
	api.Post("/expiry/alerts/:id/acknowledge", expiry.AcknowledgeAlertHandler())
	api.Post("/expiry/alerts/:id/resolve", expiry.ResolveAlertHandler())

	// Purchase invoice uploads
	api.Post("/uploads/purchase", uploads.UploadPurchaseHandler())
	api.Get("/uploads/sessions", uploads.ListSessionsHandler())
	api.Get("/uploads/sessions/:id", uploads.GetSessionHandler())
	api.Post("/uploads/approve", uploads.ApproveHandler())

	// Audit trail
	api.Get("/audit-logs", audit.ListAuditLogsHandler())

	logger.L.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.L.Fatal("server stopped", zap.Error(err))
	}
}
