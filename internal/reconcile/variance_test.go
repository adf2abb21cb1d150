package reconcile

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		name     string
		variance float64
		kind     VarianceKind
		amount   float64
	}{
		{"overage", 350, VarianceOverage, 350},
		{"shortage", -200, VarianceShortage, 200},
		{"balanced", 0, VarianceBalanced, 0},
		{"small shortage", -0.01, VarianceShortage, 0.01},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.variance)
			if got.Kind != tc.kind {
				t.Fatalf("expected %s, got %s", tc.kind, got.Kind)
			}
			if got.Amount != tc.amount {
				t.Fatalf("expected amount %v, got %v", tc.amount, got.Amount)
			}
		})
	}
}
