package reconcile

import (
	"time"

	"github.com/google/uuid"
)

// Allocator manages one island's collection list during entry. All methods
// are pure over their inputs; the caller owns the returned slices.
type Allocator struct {
	now func() time.Time
}

// NewAllocator constructs an Allocator.
func NewAllocator() *Allocator {
	return &Allocator{now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (a *Allocator) WithNow(now func() time.Time) {
	if now != nil {
		a.now = now
	}
}

// Remaining computes the balance still allocatable against the expected
// amount given existing collections and the pending cash figure.
func Remaining(expected float64, collections []Collection, pendingCash float64) float64 {
	total := pendingCash
	for _, c := range collections {
		total += c.Amount
	}
	return round2(expected - total)
}

// AddDebtCollection appends a debt entry after validating the debtor, the
// amount, and the insertion-time allocation cap. The input slice is not
// mutated.
func (a *Allocator) AddDebtCollection(in AddDebtCollectionInput, current []Collection, remaining float64) ([]Collection, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Amount > remaining {
		return nil, ErrOverAllocation
	}
	next := make([]Collection, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, Collection{
		ID:         uuid.NewString(),
		Type:       CollectionDebt,
		Amount:     round2(in.Amount),
		DebtorID:   in.Debtor.ID,
		DebtorName: in.Debtor.Name,
		DebtorCode: in.Debtor.Code,
		RecordedAt: a.now(),
	})
	return next, nil
}

// RemoveCollection filters out the entry by id. Removing an id that is not
// present is a no-op.
func (a *Allocator) RemoveCollection(id string, current []Collection) []Collection {
	next := make([]Collection, 0, len(current))
	for _, c := range current {
		if c.ID == id {
			continue
		}
		next = append(next, c)
	}
	return next
}

// NormalizeCashAmount maps an absent figure to zero and passes any supplied
// value through unchanged. Over-allocation of cash is enforced at finalize
// time, not while the user types.
func NormalizeCashAmount(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

// Finalize folds pending cash into the collection list and reports the
// variance against the expected amount. A non-zero variance is an outcome to
// confirm, not an error; the allocator only reports it.
func (a *Allocator) Finalize(cashAmount float64, debtCollections []Collection, expected float64) FinalizeResult {
	collections := make([]Collection, 0, len(debtCollections)+1)
	collections = append(collections, debtCollections...)
	if cashAmount > 0 {
		collections = append(collections, Collection{
			ID:         "cash-" + uuid.NewString(),
			Type:       CollectionCash,
			Amount:     round2(cashAmount),
			RecordedAt: a.now(),
		})
	}
	var total float64
	for _, c := range collections {
		total += c.Amount
	}
	total = round2(total)
	return FinalizeResult{
		Collections:    collections,
		TotalCollected: total,
		Variance:       round2(expected - total),
	}
}
