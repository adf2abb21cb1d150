package readings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed access to shift readings.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LoadShift returns the station the shift belongs to.
func (r *Repository) LoadShift(ctx context.Context, shiftID int64) (int64, error) {
	var stationID int64
	err := r.pool.QueryRow(ctx, `SELECT station_id FROM shifts WHERE id = $1`, shiftID).Scan(&stationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrShiftNotFound
		}
		return 0, err
	}
	return stationID, nil
}

// ListIslands returns the station's islands in stable order.
func (r *Repository) ListIslands(ctx context.Context, stationID int64) ([]Island, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM islands WHERE station_id = $1 ORDER BY id`, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var islands []Island
	for rows.Next() {
		var island Island
		if err := rows.Scan(&island.ID, &island.Name); err != nil {
			return nil, err
		}
		islands = append(islands, island)
	}
	return islands, rows.Err()
}

// ListPumpReadings returns expected sales per pump, keyed by island.
func (r *Repository) ListPumpReadings(ctx context.Context, shiftID int64) (map[int64][]Pump, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT island_id, pump_name, expected_sales
		FROM shift_pump_readings
		WHERE shift_id = $1
		ORDER BY island_id, pump_name`, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	pumps := make(map[int64][]Pump)
	for rows.Next() {
		var islandID int64
		var pump Pump
		if err := rows.Scan(&islandID, &pump.Name, &pump.ExpectedSales); err != nil {
			return nil, err
		}
		pumps[islandID] = append(pumps[islandID], pump)
	}
	return pumps, rows.Err()
}

// ListAttendantAssignments returns assigned staff, keyed by island.
func (r *Repository) ListAttendantAssignments(ctx context.Context, shiftID int64) (map[int64][]Attendant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.island_id, s.id, s.first_name, s.last_name
		FROM shift_attendant_assignments a
		JOIN staff s ON s.id = a.attendant_id
		WHERE a.shift_id = $1
		ORDER BY a.island_id, s.id`, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	attendants := make(map[int64][]Attendant)
	for rows.Next() {
		var islandID int64
		var attendant Attendant
		if err := rows.Scan(&islandID, &attendant.ID, &attendant.FirstName, &attendant.LastName); err != nil {
			return nil, err
		}
		attendants[islandID] = append(attendants[islandID], attendant)
	}
	return attendants, rows.Err()
}
