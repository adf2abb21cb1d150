package expenses

import (
	"errors"
	"strings"
	"time"
)

// Expense is an operational cost booked against an island during a shift.
// Expenses reduce the amount the attendant is expected to hand over.
type Expense struct {
	ID         int64     `json:"id"`
	ShiftID    int64     `json:"shiftId"`
	IslandID   int64     `json:"islandId"`
	Category   string    `json:"category"`
	Amount     float64   `json:"amount"`
	RecordedBy int64     `json:"recordedBy"`
	RecordedAt time.Time `json:"recordedAt"`
}

// CreateExpenseInput captures a new expense entry.
type CreateExpenseInput struct {
	ShiftID    int64
	IslandID   int64
	Category   string
	Amount     float64
	RecordedBy int64
}

// Validate ensures the expense entry is coherent.
func (in CreateExpenseInput) Validate() error {
	if in.ShiftID == 0 {
		return errors.New("expenses: shift id required")
	}
	if in.IslandID == 0 {
		return errors.New("expenses: island id required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return errors.New("expenses: category required")
	}
	if in.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}

// ErrNonPositiveAmount indicates an expense amount of zero or less.
var ErrNonPositiveAmount = errors.New("expenses: amount must be positive")
