package submission

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johnkamauwamunga/energy-erp-sub000/internal/platform/db"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/reconcile"
)

// Repository persists shift submissions and attendant ledger entries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Persist writes the submission record, the attendant ledger entries, and
// the shift close marker in one transaction. A second submission for the
// same shift fails with ErrAlreadySubmitted.
func (r *Repository) Persist(ctx context.Context, payload reconcile.FinalSubmissionPayload, entries []LedgerEntry) (Record, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Record{}, err
	}

	var record Record
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO shift_submissions (shift_id, recorded_by, payload, submitted_at)
			VALUES ($1, $2, $3, now())
			RETURNING id, shift_id, recorded_by, submitted_at, dispatched`,
			payload.ShiftID, payload.RecordedByID, raw,
		).Scan(&record.ID, &record.ShiftID, &record.RecordedBy, &record.SubmittedAt, &record.Dispatched)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrAlreadySubmitted
			}
			return err
		}

		for _, entry := range entries {
			_, err := tx.Exec(ctx, `
				INSERT INTO attendant_ledger_entries (attendant_id, shift_id, kind, amount)
				VALUES ($1, $2, $3, $4)`,
				entry.AttendantID, entry.ShiftID, entry.Kind, entry.Amount)
			if err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `UPDATE shifts SET status = 'SUBMITTED', ended_at = $2 WHERE id = $1`,
			payload.ShiftID, payload.EndTime)
		return err
	})
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

// Payload returns the stored submission body for dispatch.
func (r *Repository) Payload(ctx context.Context, submissionID int64) ([]byte, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM shift_submissions WHERE id = $1`, submissionID).Scan(&raw)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// MarkDispatched flags the submission as delivered to the upstream ERP.
func (r *Repository) MarkDispatched(ctx context.Context, submissionID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE shift_submissions SET dispatched = true WHERE id = $1`, submissionID)
	return err
}
