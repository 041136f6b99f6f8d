package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func snap(id uint, productID uint, daysOut int, qty, cost float64) BatchSnapshot {
	exp := testNow.AddDate(0, 0, daysOut)
	return BatchSnapshot{
		BatchID:     id,
		ProductID:   productID,
		ProductName: "Arnica Montana 200C",
		SKU:         "ARM-200",
		BatchNumber: "B001",
		ExpiryDate:  &exp,
		Quantity:    qty,
		UnitCost:    cost,
	}
}

func TestClassifyWindowBoundaries(t *testing.T) {
	batches := []BatchSnapshot{
		snap(1, 1, 0, 1, 1),    // 7_days
		snap(2, 2, 7, 1, 1),    // 7_days
		snap(3, 3, 8, 1, 1),    // 1_month
		snap(4, 4, 30, 1, 1),   // 1_month
		snap(5, 5, 31, 1, 1),   // 2_months
		snap(6, 6, 90, 1, 1),   // 3_months
		snap(7, 7, 180, 1, 1),  // 6_months
		snap(8, 8, 365, 1, 1),  // 1_year
		snap(9, 9, 1800, 1, 1), // 60_months
		snap(10, 10, -1, 1, 1), // expired
	}

	s := Classify(testNow, batches, 10)

	got := map[string]int{}
	for _, w := range s.Windows {
		got[w.WindowLabel] = w.CountBatches
	}
	assert.Equal(t, 2, got["7_days"])
	assert.Equal(t, 2, got["1_month"])
	assert.Equal(t, 1, got["2_months"])
	assert.Equal(t, 1, got["3_months"])
	assert.Equal(t, 1, got["6_months"])
	assert.Equal(t, 1, got["1_year"])
	assert.Equal(t, 1, got["60_months"])
	assert.Equal(t, 1, s.Expired.CountBatches)
}

func TestClassifyPartitionsBatches(t *testing.T) {
	// Every non-expired, positive-quantity, dated batch lands in exactly one
	// window; bucket counts must sum to the eligible batch count.
	var batches []BatchSnapshot
	for i := 0; i <= 1800; i += 13 {
		batches = append(batches, snap(uint(i+1), uint(i+1), i, 2, 3))
	}

	s := Classify(testNow, batches, 10)

	total := 0
	for _, w := range s.Windows {
		total += w.CountBatches
	}
	assert.Equal(t, len(batches), total)
	assert.Zero(t, s.Expired.CountBatches)
}

func TestClassifySkipsZeroQuantityAndNilExpiry(t *testing.T) {
	noExpiry := BatchSnapshot{BatchID: 3, ProductID: 3, Quantity: 5, UnitCost: 10}
	batches := []BatchSnapshot{
		snap(1, 1, 5, 0, 10), // zero quantity: excluded
		snap(2, 2, 5, 4, 10),
		noExpiry, // nil expiry: excluded, no alert raised
	}

	s := Classify(testNow, batches, 10)

	assert.Equal(t, 1, s.Windows[0].CountBatches)
	assert.Equal(t, 1, s.Windows[0].CountItems)
	assert.Equal(t, 40.0, s.Windows[0].TotalValue)
}

func TestClassifyCountsDistinctProducts(t *testing.T) {
	// Two batches of the same product in one window: 2 batches, 1 item.
	a := snap(1, 7, 3, 10, 2)
	b := snap(2, 7, 5, 20, 2)
	b.BatchNumber = "B002"

	s := Classify(testNow, []BatchSnapshot{a, b}, 10)

	w := s.Windows[0]
	assert.Equal(t, "7_days", w.WindowLabel)
	assert.Equal(t, 2, w.CountBatches)
	assert.Equal(t, 1, w.CountItems)
	assert.Equal(t, 60.0, w.TotalValue)
}

func TestClassifySampleOrderingAndLimit(t *testing.T) {
	var batches []BatchSnapshot
	for i := 7; i >= 1; i-- {
		batches = append(batches, snap(uint(i), uint(i), i, 1, 1))
	}

	s := Classify(testNow, batches, 3)

	samples := s.Windows[0].SampleProducts
	require.Len(t, samples, 3)
	assert.Equal(t, 1, samples[0].DaysToExpiry)
	assert.Equal(t, 2, samples[1].DaysToExpiry)
	assert.Equal(t, 3, samples[2].DaysToExpiry)
}

func TestClassifyClampsNegativeValue(t *testing.T) {
	b := snap(1, 1, 3, 5, -10)
	s := Classify(testNow, []BatchSnapshot{b}, 10)
	assert.Equal(t, 0.0, s.Windows[0].TotalValue)
	assert.Equal(t, 1, s.Windows[0].CountBatches)
}

func TestClassifyIdempotent(t *testing.T) {
	batches := []BatchSnapshot{
		snap(1, 1, 5, 3, 7),
		snap(2, 2, 45, 2, 11),
		snap(3, 3, -10, 1, 5),
	}
	first := Classify(testNow, batches, 10)
	second := Classify(testNow, batches, 10)
	assert.Equal(t, first, second)
}

func TestExpiredBatchIDs(t *testing.T) {
	noExpiry := BatchSnapshot{BatchID: 4, ProductID: 4, Quantity: 3, UnitCost: 1}
	batches := []BatchSnapshot{
		snap(1, 1, -30, 5, 1), // past expiry
		snap(2, 2, -1, 0, 1),  // past expiry, zero quantity still flips
		snap(3, 3, 0, 5, 1),   // expires today, not yet expired
		noExpiry,
		snap(5, 5, 90, 5, 1),
	}

	ids := ExpiredBatchIDs(testNow, batches)
	assert.Equal(t, []uint{1, 2}, ids)
}

func TestWindowFor(t *testing.T) {
	assert.Equal(t, ExpiredLabel, WindowFor(-5))
	assert.Equal(t, "7_days", WindowFor(0))
	assert.Equal(t, "1_month", WindowFor(8))
	assert.Equal(t, "60_months", WindowFor(1800))
	assert.Equal(t, "", WindowFor(1801))
}
