package expenses

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed access to shift expenses.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByShiftAndIsland returns the expenses booked against one island
// during one shift, oldest first.
func (r *Repository) ListByShiftAndIsland(ctx context.Context, shiftID, islandID int64) ([]Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, shift_id, island_id, category, amount, recorded_by, recorded_at
		FROM shift_expenses
		WHERE shift_id = $1 AND island_id = $2
		ORDER BY recorded_at, id`, shiftID, islandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.ShiftID, &e.IslandID, &e.Category, &e.Amount, &e.RecordedBy, &e.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create inserts a new expense entry.
func (r *Repository) Create(ctx context.Context, in CreateExpenseInput) (Expense, error) {
	var e Expense
	err := r.pool.QueryRow(ctx, `
		INSERT INTO shift_expenses (shift_id, island_id, category, amount, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, shift_id, island_id, category, amount, recorded_by, recorded_at`,
		in.ShiftID, in.IslandID, in.Category, in.Amount, in.RecordedBy,
	).Scan(&e.ID, &e.ShiftID, &e.IslandID, &e.Category, &e.Amount, &e.RecordedBy, &e.RecordedAt)
	if err != nil {
		return Expense{}, err
	}
	return e, nil
}
