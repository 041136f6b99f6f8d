package models

import "time"

type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
)

// ExpiryAlert: denormalized row written by the expiry refresh. DaysToExpiry
// is a snapshot from the refresh instant; the dashboard always recomputes
// live values from the batch itself.
type ExpiryAlert struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BatchID   uint           `gorm:"index;not null;uniqueIndex:idx_alert_batch" json:"batch_id"`
	Batch     InventoryBatch `json:"-"`
	ProductID uint           `gorm:"index;not null" json:"product_id"`

	WindowLabel  string  `gorm:"size:20;index" json:"window_label"`
	DaysToExpiry int     `json:"days_to_expiry"`
	AlertLevel   string  `gorm:"size:20;index" json:"alert_level"` // expired, critical, warning, good
	Quantity     float64 `json:"quantity"`
	TotalValue   float64 `json:"total_value"`

	Status           AlertStatus `gorm:"size:20;not null;default:active;index" json:"status"`
	AcknowledgedBy   string      `gorm:"size:100" json:"acknowledged_by"`
	AcknowledgedAt   *time.Time  `json:"acknowledged_at"`
	ResolutionAction string      `gorm:"size:30" json:"resolution_action"` // sold, returned, disposed, transferred
	ResolvedAt       *time.Time  `json:"resolved_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
