package models

import "time"

type Product struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	SKU        string    `gorm:"size:50;index" json:"sku"`
	Barcode    string    `gorm:"size:50" json:"barcode"`
	BrandID    *uint     `gorm:"index" json:"brand_id"`
	Brand      *Brand    `json:"brand,omitempty"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`

	// HSN/GST are stored at creation time (resolved from the upload keyword
	// table), never re-derived from the product name at read time.
	HSNCodeID *uint    `gorm:"index" json:"hsn_code_id"`
	HSNCode   *HSNCode `json:"hsn_code,omitempty"`
	GSTRate   float64  `gorm:"not null;default:5" json:"gst_rate"`

	Potency  string `gorm:"size:20" json:"potency"`   // 30C, 200C, 1M...
	Form     string `gorm:"size:50" json:"form"`      // Dilution, Mother Tincture, Tablets...
	PackSize string `gorm:"size:20" json:"pack_size"` // 30ml, 100ml, 25gm
	Unit     string `gorm:"size:20" json:"unit"`      // ml, gm, tabs

	MRP          float64 `json:"mrp"`
	SellingPrice float64 `json:"selling_price"`

	// Stock quantity below which the product shows up in low-stock alerts.
	// 0 means unset; classifiers fall back to the default of 5.
	ReorderLevel int `gorm:"not null;default:0" json:"reorder_level"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
