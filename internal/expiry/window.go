package expiry

import (
	"sort"
	"time"

	"homeoerp-backend/internal/inventory"
)

// Window: a day-range bucket over days-to-expiry. Windows are mutually
// exclusive: a batch lands in the single window whose (MinDays, MaxDays]
// range contains its days-to-expiry. Cumulative "within N days" views are
// derived by summing buckets.
type Window struct {
	Label   string
	Days    int
	MinDays int
	MaxDays int
}

// Windows mirrors the dashboard's fixed thresholds: 7/30/60/90/180/365/1800
// days, ordered ascending.
var Windows = []Window{
	{"7_days", 7, 0, 7},
	{"1_month", 30, 8, 30},
	{"2_months", 60, 31, 60},
	{"3_months", 90, 61, 90},
	{"6_months", 180, 91, 180},
	{"1_year", 365, 181, 365},
	{"60_months", 1800, 366, 1800},
}

// ExpiredLabel marks the separate bucket for already-expired batches.
const ExpiredLabel = "expired"

// DefaultSampleLimit caps the sample products carried per window.
const DefaultSampleLimit = 10

// BatchSnapshot: the plain record the classifier consumes. Handlers build
// these at the API boundary so the classification itself stays free of I/O.
type BatchSnapshot struct {
	BatchID     uint
	ProductID   uint
	ProductName string
	SKU         string
	BatchNumber string
	ExpiryDate  *time.Time
	Quantity    float64
	UnitCost    float64
}

type SampleProduct struct {
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	SKU          string  `json:"sku"`
	BatchNumber  string  `json:"batch_number"`
	ExpiryDate   string  `json:"expiry_date"`
	DaysToExpiry int     `json:"days_to_expiry"`
	Quantity     float64 `json:"quantity"`
	TotalValue   float64 `json:"total_value"`
}

type WindowResult struct {
	WindowLabel    string          `json:"window_label"`
	WindowDays     int             `json:"window_days"`
	CountItems     int             `json:"count_items"` // distinct products
	CountBatches   int             `json:"count_batches"`
	TotalValue     float64         `json:"total_value"`
	SampleProducts []SampleProduct `json:"sample_products"`
	ComputedAt     time.Time       `json:"computed_at"`
}

type Summary struct {
	Windows    []WindowResult `json:"windows"`
	Expired    WindowResult   `json:"expired"`
	ComputedAt time.Time      `json:"computed_at"`
}

// Classify buckets batches into the fixed windows relative to now.
// Batches with nil expiry or non-positive quantity are skipped; expired
// batches (days < 0) go to the separate expired bucket. The result is a pure
// function of (now, batches): re-running it within the same instant yields
// identical buckets.
func Classify(now time.Time, batches []BatchSnapshot, sampleLimit int) Summary {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}

	type bucket struct {
		products map[uint]struct{}
		batches  int
		value    float64
		samples  []SampleProduct
	}

	newBucket := func() *bucket {
		return &bucket{products: make(map[uint]struct{})}
	}

	buckets := make(map[string]*bucket, len(Windows)+1)
	for _, w := range Windows {
		buckets[w.Label] = newBucket()
	}
	buckets[ExpiredLabel] = newBucket()

	for _, b := range batches {
		if b.Quantity <= 0 {
			continue
		}
		days, ok := inventory.DaysToExpiry(b.ExpiryDate, now)
		if !ok {
			continue
		}

		label := ""
		if days < 0 {
			label = ExpiredLabel
		} else {
			for _, w := range Windows {
				if days >= w.MinDays && days <= w.MaxDays {
					label = w.Label
					break
				}
			}
		}
		if label == "" {
			// Beyond the last window (> 1800 days): not alert-worthy.
			continue
		}

		bk := buckets[label]
		bk.products[b.ProductID] = struct{}{}
		bk.batches++
		bk.value += inventory.BatchValue(b.Quantity, b.UnitCost)
		bk.samples = append(bk.samples, SampleProduct{
			ProductID:    b.ProductID,
			ProductName:  b.ProductName,
			SKU:          b.SKU,
			BatchNumber:  b.BatchNumber,
			ExpiryDate:   b.ExpiryDate.Format("2006-01-02"),
			DaysToExpiry: days,
			Quantity:     b.Quantity,
			TotalValue:   inventory.BatchValue(b.Quantity, b.UnitCost),
		})
	}

	finish := func(label string, days int) WindowResult {
		bk := buckets[label]
		sort.Slice(bk.samples, func(i, j int) bool {
			return bk.samples[i].DaysToExpiry < bk.samples[j].DaysToExpiry
		})
		samples := bk.samples
		if len(samples) > sampleLimit {
			samples = samples[:sampleLimit]
		}
		if samples == nil {
			samples = []SampleProduct{}
		}
		return WindowResult{
			WindowLabel:    label,
			WindowDays:     days,
			CountItems:     len(bk.products),
			CountBatches:   bk.batches,
			TotalValue:     bk.value,
			SampleProducts: samples,
			ComputedAt:     now,
		}
	}

	results := make([]WindowResult, 0, len(Windows))
	for _, w := range Windows {
		results = append(results, finish(w.Label, w.Days))
	}

	return Summary{
		Windows:    results,
		Expired:    finish(ExpiredLabel, -1),
		ComputedAt: now,
	}
}

// ExpiredBatchIDs returns the IDs of dated batches whose expiry has passed,
// regardless of quantity. Refresh flips these to expired status.
func ExpiredBatchIDs(now time.Time, batches []BatchSnapshot) []uint {
	var ids []uint
	for _, b := range batches {
		if days, ok := inventory.DaysToExpiry(b.ExpiryDate, now); ok && days < 0 {
			ids = append(ids, b.BatchID)
		}
	}
	return ids
}

// WindowFor returns the label for a days-to-expiry value, or "" when it is
// past the last window.
func WindowFor(days int) string {
	if days < 0 {
		return ExpiredLabel
	}
	for _, w := range Windows {
		if days >= w.MinDays && days <= w.MaxDays {
			return w.Label
		}
	}
	return ""
}
