package pipeline

import (
	"math"

	"github.com/salesops/asinsight/internal/domain"
)

// WindowMetrics holds per-ASIN summed sale quantities for one observation
// window. The window length is validated at the configuration boundary
// (minimum 1 day), so demand-rate division here can never hit zero.
type WindowMetrics struct {
	Days     int
	Quantity map[string]float64
}

// ComputeWindow sums cleaned sale quantities per identifier for a window of
// the given length.
func ComputeWindow(records []domain.SalesRecord, days int) WindowMetrics {
	m := WindowMetrics{
		Days:     days,
		Quantity: make(map[string]float64, len(records)),
	}
	for _, rec := range records {
		m.Quantity[rec.ASIN] += rec.Quantity
	}
	return m
}

// SaleQuantity returns the summed quantity for the identifier; identifiers
// absent from the window map to 0, never null.
func (m WindowMetrics) SaleQuantity(asin string) float64 {
	return m.Quantity[asin]
}

// DemandRate returns the demand run rate for the identifier: summed quantity
// divided by the window length, rounded to 2 decimal places.
func (m WindowMetrics) DemandRate(asin string) float64 {
	return round2(m.Quantity[asin] / float64(m.Days))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
