package models

import "time"

type UploadStatus string

const (
	UploadStatusAwaitingApproval UploadStatus = "awaiting_approval"
	UploadStatusApproved         UploadStatus = "approved"
	UploadStatusRejected         UploadStatus = "rejected"
)

// UploadSession: one staged purchase invoice from a CSV upload. Items are
// only applied to inventory batches when the session is approved.
type UploadSession struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"` // uuid
	FileName string `gorm:"size:255" json:"file_name"`
	FileSize int64  `json:"file_size"`

	VendorName    string     `gorm:"size:150" json:"vendor_name"`
	VendorGSTIN   string     `gorm:"size:20" json:"vendor_gstin"`
	InvoiceNumber string     `gorm:"size:50;index" json:"invoice_number"`
	InvoiceDate   *time.Time `json:"invoice_date"`

	TotalRows      int `gorm:"not null" json:"total_rows"` // every data row seen for this invoice, including errored ones
	MatchedCount   int `json:"matched_count"`
	UnmatchedCount int `json:"unmatched_count"`
	ErrorCount     int `json:"error_count"`

	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`

	Status          UploadStatus `gorm:"size:30;not null;default:awaiting_approval;index" json:"status"`
	ApprovedBy      string       `gorm:"size:100" json:"approved_by"`
	ApprovedAt      *time.Time   `json:"approved_at"`
	RejectionReason string       `gorm:"size:255" json:"rejection_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []UploadItem `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type MatchType string

const (
	MatchTypeSKU       MatchType = "sku"
	MatchTypeName      MatchType = "name"
	MatchTypeFuzzy     MatchType = "fuzzy"
	MatchTypeUnmatched MatchType = "unmatched"
)

// UploadItem: one parsed invoice line, held as raw strings plus the parsed
// numerics, awaiting approval.
type UploadItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SessionID string `gorm:"size:36;index;not null" json:"session_id"`
	RowNumber int    `gorm:"not null" json:"row_number"`

	ProductCode string `gorm:"size:50" json:"product_code"`
	ProductName string `gorm:"size:200;not null" json:"product_name"`
	Brand       string `gorm:"size:100" json:"brand"`
	Potency     string `gorm:"size:20" json:"potency"`
	Form        string `gorm:"size:50" json:"form"`
	PackSize    string `gorm:"size:20" json:"pack_size"`
	Unit        string `gorm:"size:20" json:"unit"`
	HSNCode     string `gorm:"size:20" json:"hsn_code"`

	BatchNumber string     `gorm:"size:50" json:"batch_number"`
	ExpiryDate  *time.Time `json:"expiry_date"`

	Quantity    float64 `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	MRP         float64 `json:"mrp"`
	DiscountPct float64 `json:"discount_pct"`
	TaxPct      float64 `json:"tax_pct"`
	TotalAmount float64 `json:"total_amount"`

	MatchedProductID *uint     `json:"matched_product_id"`
	MatchType        MatchType `gorm:"size:20;not null;default:unmatched" json:"match_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
