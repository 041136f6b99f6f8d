package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiryStatus(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-100, ExpiryStatusExpired},
		{-1, ExpiryStatusExpired},
		{0, ExpiryStatusCritical},
		{5, ExpiryStatusCritical},
		{30, ExpiryStatusCritical},
		{31, ExpiryStatusWarning},
		{90, ExpiryStatusWarning},
		{91, ExpiryStatusGood},
		{1800, ExpiryStatusGood},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpiryStatus(tt.days), "days=%d", tt.days)
	}
}

func TestStockLevel(t *testing.T) {
	tests := []struct {
		qty     float64
		reorder int
		want    string
	}{
		{0, 5, StockLevelOut},
		{-3, 5, StockLevelOut}, // negative clamps to zero
		{3, 5, StockLevelLow},
		{5, 5, StockLevelLow},
		{6, 5, StockLevelGood},
		{40, 10, StockLevelGood}, // well above the reorder level
		{4, 0, StockLevelLow},    // unset reorder level defaults to 5
		{6, 0, StockLevelGood},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StockLevel(tt.qty, tt.reorder), "qty=%v reorder=%d", tt.qty, tt.reorder)
	}
}

func TestDaysToExpiry(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)

	in5 := now.AddDate(0, 0, 5)
	days, ok := DaysToExpiry(&in5, now)
	assert.True(t, ok)
	assert.Equal(t, 5, days)
	assert.Equal(t, ExpiryStatusCritical, ExpiryStatus(days)) // five days out is critical

	// Time of day must not shift the day count.
	sameDayEvening := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	days, ok = DaysToExpiry(&sameDayEvening, now)
	assert.True(t, ok)
	assert.Equal(t, 0, days)

	yesterday := now.AddDate(0, 0, -1)
	days, ok = DaysToExpiry(&yesterday, now)
	assert.True(t, ok)
	assert.Equal(t, -1, days)

	_, ok = DaysToExpiry(nil, now)
	assert.False(t, ok)
}

func TestDaysToExpiryUsesExpiryLocation(t *testing.T) {
	// now is June 15 13:45 UTC, which is June 15 19:15 in IST. An expiry
	// stamped midnight June 16 IST is one calendar day out on the expiry's
	// own calendar, even though it is under six hours away.
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	ist := time.FixedZone("IST", 5*3600+1800)

	midnightTomorrowIST := time.Date(2025, 6, 16, 0, 0, 0, 0, ist)
	days, ok := DaysToExpiry(&midnightTomorrowIST, now)
	assert.True(t, ok)
	assert.Equal(t, 1, days)

	midnightTodayIST := time.Date(2025, 6, 15, 0, 0, 0, 0, ist)
	days, ok = DaysToExpiry(&midnightTodayIST, now)
	assert.True(t, ok)
	assert.Equal(t, 0, days)
}

func TestBatchValue(t *testing.T) {
	assert.Equal(t, 120.0, BatchValue(10, 12))
	assert.Equal(t, 0.0, BatchValue(-10, 12))
	assert.Equal(t, 0.0, BatchValue(10, -12))
}
