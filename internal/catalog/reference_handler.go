package catalog

import (
	"strings"

	"homeoerp-backend/internal/database"
	"homeoerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/brands
func ListBrandsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var brands []models.Brand
		if err := database.DB.Where("is_active = ?", true).Order("name asc").Find(&brands).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list brands")
		}
		return c.JSON(brands)
	}
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		if err := database.DB.Where("is_active = ?", true).Order("name asc").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list categories")
		}
		return c.JSON(categories)
	}
}

// GET /api/hsn-codes
func ListHSNCodesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var codes []models.HSNCode
		if err := database.DB.Where("is_active = ?", true).Order("code asc").Find(&codes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list HSN codes")
		}
		return c.JSON(codes)
	}
}

func referenceCode(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// GetOrCreateBrand resolves a brand by name, creating it on first sight.
// Runs inside whatever tx handle the caller passes.
func GetOrCreateBrand(tx *gorm.DB, name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var brand models.Brand
	err := tx.Where("name = ?", name).First(&brand).Error
	if err == gorm.ErrRecordNotFound {
		brand = models.Brand{Name: name, Code: referenceCode(name), IsActive: true}
		err = tx.Create(&brand).Error
	}
	if err != nil {
		return nil, err
	}
	return &brand.ID, nil
}

func GetOrCreateCategory(tx *gorm.DB, name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var category models.Category
	err := tx.Where("name = ?", name).First(&category).Error
	if err == gorm.ErrRecordNotFound {
		category = models.Category{Name: name, Code: referenceCode(name), IsActive: true}
		err = tx.Create(&category).Error
	}
	if err != nil {
		return nil, err
	}
	return &category.ID, nil
}

func GetOrCreateHSNCode(tx *gorm.DB, code string, gstRate float64) (*uint, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var hsn models.HSNCode
	err := tx.Where("code = ?", code).First(&hsn).Error
	if err == gorm.ErrRecordNotFound {
		hsn = models.HSNCode{Code: code, GSTRate: gstRate, IsActive: true}
		err = tx.Create(&hsn).Error
	}
	if err != nil {
		return nil, err
	}
	return &hsn.ID, nil
}

func GetOrCreateVendor(tx *gorm.DB, name, gstin string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var vendor models.Vendor
	err := tx.Where("name = ?", name).First(&vendor).Error
	if err == gorm.ErrRecordNotFound {
		vendor = models.Vendor{Name: name, GSTIN: gstin, IsActive: true}
		err = tx.Create(&vendor).Error
	}
	if err != nil {
		return nil, err
	}
	return &vendor.ID, nil
}
