package database

import (
	"homeoerp-backend/internal/config"
	"homeoerp-backend/internal/logger"
	"homeoerp-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.L.Fatal("database connection failed", zap.Error(err))
	}

	err = DB.AutoMigrate(
		&models.Brand{},
		&models.Category{},
		&models.HSNCode{},
		&models.Vendor{},
		&models.Product{},
		&models.InventoryBatch{},
		&models.UploadSession{},
		&models.UploadItem{},
		&models.ExpiryAlert{},
		&models.AuditLog{},
	)
	if err != nil {
		logger.L.Fatal("automigrate failed", zap.Error(err))
	}

	logger.L.Info("database connected, migration complete")
}
