package inventory

import (
	"math"
	"time"
)

// Expiry status per batch, a pure function of days-to-expiry.
const (
	ExpiryStatusExpired  = "expired"
	ExpiryStatusCritical = "critical"
	ExpiryStatusWarning  = "warning"
	ExpiryStatusGood     = "good"
)

// Stock level relative to the product's reorder threshold.
const (
	StockLevelOut  = "out"
	StockLevelLow  = "low"
	StockLevelGood = "good"
)

// DefaultReorderLevel applies when a product has no reorder level set.
const DefaultReorderLevel = 5

// DaysToExpiry returns the whole calendar days between now and the expiry
// date, both taken on the expiry date's own calendar (its location), so the
// day printed on the package is the day that counts. ok is false when the
// batch has no expiry date; such batches are excluded from window bucketing
// entirely.
func DaysToExpiry(expiry *time.Time, now time.Time) (int, bool) {
	if expiry == nil {
		return 0, false
	}
	d := startOfDay(*expiry).Sub(startOfDay(now.In(expiry.Location())))
	// Rounding keeps DST-shortened or -lengthened days at a whole day.
	return int(math.Round(d.Hours() / 24)), true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ExpiryStatus classifies a batch by days-to-expiry:
// < 0 expired, 0..30 critical, 31..90 warning, > 90 good.
func ExpiryStatus(daysToExpiry int) string {
	switch {
	case daysToExpiry < 0:
		return ExpiryStatusExpired
	case daysToExpiry <= 30:
		return ExpiryStatusCritical
	case daysToExpiry <= 90:
		return ExpiryStatusWarning
	default:
		return ExpiryStatusGood
	}
}

// StockLevel classifies available quantity against the reorder threshold.
// A reorderLevel of 0 (unset) falls back to DefaultReorderLevel.
func StockLevel(quantity float64, reorderLevel int) string {
	if quantity < 0 {
		quantity = 0
	}
	if reorderLevel <= 0 {
		reorderLevel = DefaultReorderLevel
	}
	switch {
	case quantity <= 0:
		return StockLevelOut
	case quantity <= float64(reorderLevel):
		return StockLevelLow
	default:
		return StockLevelGood
	}
}

// BatchValue is quantity times unit purchase price, with negative inputs
// clamped to zero so corrupt rows cannot poison aggregates.
func BatchValue(quantity, unitPrice float64) float64 {
	if quantity < 0 {
		quantity = 0
	}
	if unitPrice < 0 {
		unitPrice = 0
	}
	return quantity * unitPrice
}
