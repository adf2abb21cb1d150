package submission

import (
	"context"
	"log/slog"

	"github.com/johnkamauwamunga/energy-erp-sub000/internal/reconcile"
)

type repository interface {
	Persist(ctx context.Context, payload reconcile.FinalSubmissionPayload, entries []LedgerEntry) (Record, error)
}

type enqueuer interface {
	EnqueueSubmissionDispatch(ctx context.Context, submissionID int64) error
}

// Service owns the durable side of shift hand-over: it writes the submission
// and attendant ledger rows, then queues upstream dispatch. It satisfies the
// reconcile package's Submitter contract.
type Service struct {
	logger *slog.Logger
	repo   repository
	queue  enqueuer
}

// NewService constructs a Service instance.
func NewService(logger *slog.Logger, repo repository, queue enqueuer) *Service {
	return &Service{logger: logger, repo: repo, queue: queue}
}

// Submit persists the reconciled shift and schedules upstream dispatch.
// Dispatch is best-effort: the submission is durable once Persist commits,
// and a failed enqueue only delays delivery.
func (s *Service) Submit(ctx context.Context, payload reconcile.FinalSubmissionPayload) error {
	record, err := s.repo.Persist(ctx, payload, LedgerEntries(payload))
	if err != nil {
		return err
	}
	if s.queue != nil {
		if err := s.queue.EnqueueSubmissionDispatch(ctx, record.ID); err != nil {
			s.logger.Warn("enqueue submission dispatch",
				slog.Int64("submission_id", record.ID),
				slog.Any("error", err))
		}
	}
	s.logger.Info("shift submitted",
		slog.Int64("shift_id", payload.ShiftID),
		slog.Int64("submission_id", record.ID))
	return nil
}

// LedgerEntries derives attendant debits and credits from the payload.
// A shortage on an island debits its attendant; an overage credits them.
func LedgerEntries(payload reconcile.FinalSubmissionPayload) []LedgerEntry {
	var entries []LedgerEntry
	for _, island := range payload.IslandCollections {
		if island.AttendantID == 0 {
			continue
		}
		if island.ShortageAmount > 0 {
			entries = append(entries, LedgerEntry{
				AttendantID: island.AttendantID,
				ShiftID:     payload.ShiftID,
				Kind:        LedgerShortageDebit,
				Amount:      island.ShortageAmount,
			})
		}
		if island.OverageAmount > 0 {
			entries = append(entries, LedgerEntry{
				AttendantID: island.AttendantID,
				ShiftID:     payload.ShiftID,
				Kind:        LedgerOverageCredit,
				Amount:      island.OverageAmount,
			})
		}
	}
	return entries
}
