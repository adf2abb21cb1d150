package reconcile

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestAddDebtCollection(t *testing.T) {
	alloc := NewAllocator()
	alloc.WithNow(fixedClock())
	debtor := DebtorRef{ID: 7, Name: "Acme Transport", Code: "DEB-007"}

	next, err := alloc.AddDebtCollection(AddDebtCollectionInput{Debtor: debtor, Amount: 4000}, nil, 10200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next) != 1 {
		t.Fatalf("expected 1 collection, got %d", len(next))
	}
	got := next[0]
	if got.Type != CollectionDebt || got.Amount != 4000 || got.DebtorID != 7 || got.DebtorCode != "DEB-007" {
		t.Fatalf("unexpected collection: %+v", got)
	}
	if got.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestAddDebtCollectionValidation(t *testing.T) {
	alloc := NewAllocator()
	debtor := DebtorRef{ID: 7, Name: "Acme Transport", Code: "DEB-007"}

	if _, err := alloc.AddDebtCollection(AddDebtCollectionInput{Amount: 100}, nil, 1000); !errors.Is(err, ErrDebtorRequired) {
		t.Fatalf("expected ErrDebtorRequired, got %v", err)
	}
	if _, err := alloc.AddDebtCollection(AddDebtCollectionInput{Debtor: debtor, Amount: 0}, nil, 1000); !errors.Is(err, ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
	if _, err := alloc.AddDebtCollection(AddDebtCollectionInput{Debtor: debtor, Amount: -40}, nil, 1000); !errors.Is(err, ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
	if _, err := alloc.AddDebtCollection(AddDebtCollectionInput{Debtor: debtor, Amount: 12000}, nil, 10200); !errors.Is(err, ErrOverAllocation) {
		t.Fatalf("expected ErrOverAllocation, got %v", err)
	}
}

func TestAddDebtCollectionDoesNotMutateInput(t *testing.T) {
	alloc := NewAllocator()
	debtor := DebtorRef{ID: 1, Name: "N", Code: "C"}
	existing := []Collection{{ID: "a", Type: CollectionDebt, Amount: 100}}
	next, err := alloc.AddDebtCollection(AddDebtCollectionInput{Debtor: debtor, Amount: 50}, existing, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(existing) != 1 {
		t.Fatalf("input slice mutated: %d entries", len(existing))
	}
	if len(next) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(next))
	}
}

func TestRemaining(t *testing.T) {
	collections := []Collection{
		{ID: "a", Type: CollectionDebt, Amount: 3000},
		{ID: "b", Type: CollectionDebt, Amount: 1000},
	}
	if got := Remaining(10200, collections, 2000); got != 4200 {
		t.Fatalf("expected remaining 4200, got %v", got)
	}
	if got := Remaining(10200, nil, 0); got != 10200 {
		t.Fatalf("expected remaining 10200, got %v", got)
	}
}

func TestRemoveCollectionIdempotent(t *testing.T) {
	alloc := NewAllocator()
	collections := []Collection{
		{ID: "a", Amount: 100},
		{ID: "b", Amount: 200},
	}
	next := alloc.RemoveCollection("a", collections)
	if len(next) != 1 || next[0].ID != "b" {
		t.Fatalf("unexpected list after removal: %+v", next)
	}
	// Removing an id that is not present changes nothing.
	again := alloc.RemoveCollection("missing", next)
	if len(again) != 1 || again[0].ID != "b" {
		t.Fatalf("removal of absent id mutated list: %+v", again)
	}
}

func TestNormalizeCashAmount(t *testing.T) {
	if got := NormalizeCashAmount(nil); got != 0 {
		t.Fatalf("expected 0 for nil, got %v", got)
	}
	value := 1250.5
	if got := NormalizeCashAmount(&value); got != 1250.5 {
		t.Fatalf("expected pass-through, got %v", got)
	}
	// No upper clamp at input time: over-expected values flow through.
	big := 999999.0
	if got := NormalizeCashAmount(&big); got != 999999 {
		t.Fatalf("expected pass-through, got %v", got)
	}
}

func TestFinalize(t *testing.T) {
	alloc := NewAllocator()
	alloc.WithNow(fixedClock())
	debts := []Collection{
		{ID: "d1", Type: CollectionDebt, Amount: 4000, DebtorID: 7},
	}
	result := alloc.Finalize(6000, debts, 10200)
	if len(result.Collections) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(result.Collections))
	}
	cash := result.Collections[1]
	if cash.Type != CollectionCash || !strings.HasPrefix(cash.ID, "cash-") {
		t.Fatalf("expected synthetic cash entry, got %+v", cash)
	}
	if result.TotalCollected != 10000 {
		t.Fatalf("expected total 10000, got %v", result.TotalCollected)
	}
	if result.Variance != 200 {
		t.Fatalf("expected variance 200, got %v", result.Variance)
	}
}

func TestFinalizeZeroCash(t *testing.T) {
	alloc := NewAllocator()
	result := alloc.Finalize(0, nil, 500)
	if len(result.Collections) != 0 {
		t.Fatalf("expected no collections, got %d", len(result.Collections))
	}
	if result.TotalCollected != 0 {
		t.Fatalf("expected total 0, got %v", result.TotalCollected)
	}
	if result.Variance != 500 {
		t.Fatalf("expected variance 500, got %v", result.Variance)
	}
}
