package reconcile

import "math"

// TotalPumpSales sums the expected sales across an island's pumps.
func TotalPumpSales(island Island) float64 {
	var total float64
	for _, pump := range island.Pumps {
		total += pump.ExpectedSales
	}
	return round2(total)
}

// ComputeExpected derives the expected settlement amount for one island.
// Expenses exceeding pump sales plus receipts produce a negative expected
// amount; the value is deliberately not clamped and propagates as a larger
// required collection shortfall.
func ComputeExpected(island Island, receipts, cumulativeExpenses float64) float64 {
	return round2(TotalPumpSales(island) + receipts - cumulativeExpenses)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
