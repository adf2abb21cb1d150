package expenses

import (
	"context"
	"math"
)

type repository interface {
	ListByShiftAndIsland(ctx context.Context, shiftID, islandID int64) ([]Expense, error)
	Create(ctx context.Context, in CreateExpenseInput) (Expense, error)
}

// Service orchestrates expense lookups and mutations.
type Service struct {
	repo repository
}

// NewService constructs a Service instance.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// ListByShiftAndIsland returns the island's expense entries for the shift.
func (s *Service) ListByShiftAndIsland(ctx context.Context, shiftID, islandID int64) ([]Expense, error) {
	return s.repo.ListByShiftAndIsland(ctx, shiftID, islandID)
}

// CumulativeByShiftAndIsland sums the island's expenses for the shift.
// Only entries booked against the given shift count toward the total;
// an expense from another shift never dents this shift's expectation.
func (s *Service) CumulativeByShiftAndIsland(ctx context.Context, shiftID, islandID int64) (float64, error) {
	entries, err := s.repo.ListByShiftAndIsland(ctx, shiftID, islandID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, e := range entries {
		if e.ShiftID != shiftID {
			continue
		}
		total += e.Amount
	}
	return math.Round(total*100) / 100, nil
}

// Create validates and records a new expense entry.
func (s *Service) Create(ctx context.Context, in CreateExpenseInput) (Expense, error) {
	if err := in.Validate(); err != nil {
		return Expense{}, err
	}
	return s.repo.Create(ctx, in)
}
