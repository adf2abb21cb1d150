package reconcile

import "math"

// Resolve classifies a variance. Positive means more was collected than
// expected (overage); negative means a shortfall the submission collaborator
// debits against the responsible attendant. The policy only classifies and
// reports the magnitude.
func Resolve(variance float64) VarianceResolution {
	switch {
	case variance > 0:
		return VarianceResolution{Kind: VarianceOverage, Amount: variance}
	case variance < 0:
		return VarianceResolution{Kind: VarianceShortage, Amount: math.Abs(variance)}
	default:
		return VarianceResolution{Kind: VarianceBalanced}
	}
}
