package models

import "time"

type BatchStatus string

const (
	BatchStatusActive   BatchStatus = "active"
	BatchStatusDepleted BatchStatus = "depleted"
	BatchStatusExpired  BatchStatus = "expired"
)

// InventoryBatch: a manufacturing lot of a product with its own expiry date
// and quantities. Batches are never hard-deleted; depletion or expiry only
// flips Status.
type InventoryBatch struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProductID uint    `gorm:"index;not null;uniqueIndex:idx_product_batch" json:"product_id"`
	Product   Product `json:"product"`

	BatchNumber string     `gorm:"size:50;not null;uniqueIndex:idx_product_batch" json:"batch_number"`
	ExpiryDate  *time.Time `gorm:"index" json:"expiry_date"` // nil = no expiry printed on the lot

	Quantity          float64 `gorm:"not null" json:"quantity"`           // received quantity
	AvailableQuantity float64 `gorm:"not null" json:"available_quantity"` // remaining after sales/adjustments

	PurchasePrice float64 `gorm:"not null" json:"purchase_price"`
	SellingPrice  float64 `json:"selling_price"`
	MRP           float64 `json:"mrp"`

	RackLocation string      `gorm:"size:50" json:"rack_location"`
	Status       BatchStatus `gorm:"size:20;not null;default:active" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
