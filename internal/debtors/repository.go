package debtors

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for debtors.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const debtorColumns = `id, station_id, name, code, phone, contact_person, created_at, updated_at`

// Get returns a debtor by id.
func (r *Repository) Get(ctx context.Context, id int64) (Debtor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+debtorColumns+` FROM debtors WHERE id = $1`, id)
	return scanDebtor(row)
}

// GetByCode returns a debtor by station-scoped code.
func (r *Repository) GetByCode(ctx context.Context, stationID int64, code string) (Debtor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+debtorColumns+` FROM debtors WHERE station_id = $1 AND code = $2`, stationID, code)
	return scanDebtor(row)
}

// List returns all debtors for a station ordered by name.
func (r *Repository) List(ctx context.Context, stationID int64) ([]Debtor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+debtorColumns+` FROM debtors WHERE station_id = $1 ORDER BY name`, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var debtors []Debtor
	for rows.Next() {
		debtor, err := scanDebtor(rows)
		if err != nil {
			return nil, err
		}
		debtors = append(debtors, debtor)
	}
	return debtors, rows.Err()
}

// Search returns debtors matching the query against name or code.
func (r *Repository) Search(ctx context.Context, stationID int64, query string, limit int) ([]Debtor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+debtorColumns+`
		FROM debtors
		WHERE station_id = $1 AND (name ILIKE '%' || $2 || '%' OR code ILIKE '%' || $2 || '%')
		ORDER BY name
		LIMIT $3`, stationID, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var debtors []Debtor
	for rows.Next() {
		debtor, err := scanDebtor(rows)
		if err != nil {
			return nil, err
		}
		debtors = append(debtors, debtor)
	}
	return debtors, rows.Err()
}

// Create inserts a debtor. A station-scoped unique index on code maps
// conflicts to ErrCodeTaken.
func (r *Repository) Create(ctx context.Context, in CreateDebtorInput) (Debtor, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO debtors (station_id, name, code, phone, contact_person)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+debtorColumns,
		in.StationID, in.Name, in.Code, in.Phone, in.ContactPerson)
	debtor, err := scanDebtor(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Debtor{}, ErrCodeTaken
		}
		return Debtor{}, err
	}
	return debtor, nil
}

// Update mutates debtor contact fields.
func (r *Repository) Update(ctx context.Context, id int64, in UpdateDebtorInput) (Debtor, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE debtors
		SET name = $2, phone = $3, contact_person = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+debtorColumns,
		id, in.Name, in.Phone, in.ContactPerson)
	return scanDebtor(row)
}

func scanDebtor(row pgx.Row) (Debtor, error) {
	var d Debtor
	err := row.Scan(&d.ID, &d.StationID, &d.Name, &d.Code, &d.Phone, &d.ContactPerson, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Debtor{}, ErrNotFound
		}
		return Debtor{}, err
	}
	return d, nil
}
