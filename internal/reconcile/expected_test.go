package reconcile

import "testing"

func TestComputeExpected(t *testing.T) {
	island := Island{
		ID:   1,
		Name: "Island A",
		Pumps: []Pump{
			{Name: "A1", ExpectedSales: 6000},
			{Name: "A2", ExpectedSales: 4000},
		},
	}
	if got := TotalPumpSales(island); got != 10000 {
		t.Fatalf("expected pump sales 10000, got %v", got)
	}
	if got := ComputeExpected(island, 500, 300); got != 10200 {
		t.Fatalf("expected 10200, got %v", got)
	}
}

func TestComputeExpectedNegative(t *testing.T) {
	// Expenses exceeding pump sales plus receipts must propagate unclamped.
	island := Island{ID: 2, Pumps: []Pump{{Name: "A1", ExpectedSales: 100}}}
	if got := ComputeExpected(island, 50, 400); got != -250 {
		t.Fatalf("expected -250, got %v", got)
	}
}

func TestComputeExpectedNoPumps(t *testing.T) {
	if got := ComputeExpected(Island{ID: 3}, 0, 0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
