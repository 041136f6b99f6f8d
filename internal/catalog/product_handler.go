package catalog

import (
	"strconv"
	"strings"

	"homeoerp-backend/internal/audit"
	"homeoerp-backend/internal/database"
	"homeoerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Barcode      string  `json:"barcode"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	HSNCode      string  `json:"hsn_code"`
	GSTRate      float64 `json:"gst_rate"`
	Potency      string  `json:"potency"`
	Form         string  `json:"form"`
	PackSize     string  `json:"pack_size"`
	Unit         string  `json:"unit"`
	MRP          float64 `json:"mrp"`
	SellingPrice float64 `json:"selling_price"`
	ReorderLevel int     `json:"reorder_level"`
	IsActive     bool    `json:"is_active"`
}

func toProductResponse(p models.Product) ProductResponse {
	res := ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		GSTRate:      p.GSTRate,
		Potency:      p.Potency,
		Form:         p.Form,
		PackSize:     p.PackSize,
		Unit:         p.Unit,
		MRP:          p.MRP,
		SellingPrice: p.SellingPrice,
		ReorderLevel: p.ReorderLevel,
		IsActive:     p.IsActive,
	}
	if p.Brand != nil {
		res.Brand = p.Brand.Name
	}
	if p.Category != nil {
		res.Category = p.Category.Name
	}
	if p.HSNCode != nil {
		res.HSNCode = p.HSNCode.Code
	}
	return res
}

// GET /api/products?search=&include_inactive=
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Brand").Preload("Category").Preload("HSNCode").Model(&models.Product{})

		if c.Query("include_inactive") != "true" {
			q = q.Where("is_active = ?", true)
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
		}

		var products []models.Product
		if err := q.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list products")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}
		return c.JSON(res)
	}
}

type CreateProductRequest struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Barcode      string  `json:"barcode"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	HSNCode      string  `json:"hsn_code"`
	GSTRate      float64 `json:"gst_rate"`
	Potency      string  `json:"potency"`
	Form         string  `json:"form"`
	PackSize     string  `json:"pack_size"`
	Unit         string  `json:"unit"`
	MRP          float64 `json:"mrp"`
	SellingPrice float64 `json:"selling_price"`
	ReorderLevel int     `json:"reorder_level"`
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.SKU = strings.TrimSpace(body.SKU)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		if body.SKU != "" {
			var existing models.Product
			if err := database.DB.Where("LOWER(sku) = ?", strings.ToLower(body.SKU)).First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "SKU is already in use")
			}
		}

		p := models.Product{
			Name:         body.Name,
			SKU:          body.SKU,
			Barcode:      strings.TrimSpace(body.Barcode),
			GSTRate:      body.GSTRate,
			Potency:      body.Potency,
			Form:         body.Form,
			PackSize:     body.PackSize,
			Unit:         body.Unit,
			MRP:          body.MRP,
			SellingPrice: body.SellingPrice,
			ReorderLevel: body.ReorderLevel,
			IsActive:     true,
		}

		if body.Brand != "" {
			if id, err := GetOrCreateBrand(database.DB, body.Brand); err == nil {
				p.BrandID = id
			}
		}
		if body.Category != "" {
			if id, err := GetOrCreateCategory(database.DB, body.Category); err == nil {
				p.CategoryID = id
			}
		}
		if body.HSNCode != "" {
			if id, err := GetOrCreateHSNCode(database.DB, body.HSNCode, body.GSTRate); err == nil {
				p.HSNCodeID = id
			}
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create product")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserName:    "system",
			EntityType:  "product",
			EntityID:    strconv.FormatUint(uint64(p.ID), 10),
			Action:      models.AuditActionCreate,
			Description: "Product created: " + p.Name,
			After:       p,
		})

		database.DB.Preload("Brand").Preload("Category").Preload("HSNCode").First(&p, p.ID)
		return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
	}
}

type UpdateProductRequest struct {
	Name         *string  `json:"name"`
	SKU          *string  `json:"sku"`
	MRP          *float64 `json:"mrp"`
	SellingPrice *float64 `json:"selling_price"`
	ReorderLevel *int     `json:"reorder_level"`
	RackNote     *string  `json:"rack_note"`
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		before := p

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			p.Name = name
		}
		if body.SKU != nil {
			p.SKU = strings.TrimSpace(*body.SKU)
		}
		if body.MRP != nil {
			p.MRP = *body.MRP
		}
		if body.SellingPrice != nil {
			p.SellingPrice = *body.SellingPrice
		}
		if body.ReorderLevel != nil {
			p.ReorderLevel = *body.ReorderLevel
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update product")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserName:    "system",
			EntityType:  "product",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "Product updated: " + p.Name,
			Before:      before,
			After:       p,
		})

		database.DB.Preload("Brand").Preload("Category").Preload("HSNCode").First(&p, p.ID)
		return c.JSON(toProductResponse(p))
	}
}

// DELETE /api/products/:id
// Soft delete: products referenced by batches and upload items are never
// removed, only deactivated.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		if err := database.DB.Model(&p).Update("is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to deactivate product")
		}

		return c.JSON(fiber.Map{"success": true, "message": "Product deactivated"})
	}
}
