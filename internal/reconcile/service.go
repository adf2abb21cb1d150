package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReadingsProvider supplies the seeded shift readings.
type ReadingsProvider interface {
	ShiftReadings(ctx context.Context, shiftID int64) (ReadingsData, error)
}

// DebtorLookup resolves debtors for stamping onto debt collections.
type DebtorLookup interface {
	Debtor(ctx context.Context, id int64) (DebtorRef, error)
}

// ExpenseProvider supplies cumulative expense totals per shift and island.
type ExpenseProvider interface {
	CumulativeByShiftAndIsland(ctx context.Context, shiftID, islandID int64) (float64, error)
}

// Submitter accepts the final payload for durable persistence and dispatch.
type Submitter interface {
	Submit(ctx context.Context, payload FinalSubmissionPayload) error
}

// Recorder observes reconciliation outcomes for metrics.
type Recorder interface {
	SessionOpened()
	ShiftSubmitted(kind VarianceKind)
}

// Service drives the reconciliation workflow against its collaborators.
type Service struct {
	store    *SessionStore
	readings ReadingsProvider
	debtors  DebtorLookup
	expenses ExpenseProvider
	submit   Submitter
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service instance.
func NewService(store *SessionStore, readings ReadingsProvider, debtors DebtorLookup, expenses ExpenseProvider, submit Submitter, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		readings: readings,
		debtors:  debtors,
		expenses: expenses,
		submit:   submit,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SessionView is the API-facing snapshot of a session.
type SessionView struct {
	ShiftID     int64                  `json:"shiftId"`
	StationID   int64                  `json:"stationId"`
	State       SessionState           `json:"state"`
	OpenedAt    time.Time              `json:"openedAt"`
	Result      ShiftResult            `json:"result"`
	Collections map[int64][]Collection `json:"collections"`
}

// OpenSession seeds a session for the shift: readings first, then the
// cumulative expense total of every island fetched concurrently. A failed
// collaborator fetch surfaces as an error the caller retries manually.
func (s *Service) OpenSession(ctx context.Context, shiftID int64) (SessionView, error) {
	readings, err := s.readings.ShiftReadings(ctx, shiftID)
	if err != nil {
		return SessionView{}, &FetchError{Op: "load readings", Err: err}
	}

	var mu sync.Mutex
	expensesByIsland := make(map[int64]float64, len(readings.Islands))
	g, gctx := errgroup.WithContext(ctx)
	for _, island := range readings.Islands {
		island := island
		g.Go(func() error {
			total, err := s.expenses.CumulativeByShiftAndIsland(gctx, shiftID, island.ID)
			if err != nil {
				return &FetchError{Op: fmt.Sprintf("load expenses for island %d", island.ID), Err: err}
			}
			mu.Lock()
			expensesByIsland[island.ID] = total
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SessionView{}, err
	}

	sess := NewSession(readings, expensesByIsland, s.now())
	sess.WithNow(s.now)
	if err := s.store.Put(sess); err != nil {
		return SessionView{}, err
	}
	if s.recorder != nil {
		s.recorder.SessionOpened()
	}
	s.logger.Info("reconciliation session opened",
		slog.Int64("shift_id", shiftID),
		slog.Int("islands", len(readings.Islands)))
	return s.view(sess), nil
}

// GetSession returns the current snapshot for a shift.
func (s *Service) GetSession(ctx context.Context, shiftID int64) (SessionView, error) {
	var view SessionView
	err := s.store.Update(shiftID, func(sess *Session) error {
		view = s.view(sess)
		return nil
	})
	return view, err
}

// EnterSales records actual island sales.
func (s *Service) EnterSales(ctx context.Context, shiftID, islandID int64, amount float64, notes string) (SessionView, error) {
	return s.mutate(shiftID, func(sess *Session) error {
		return sess.EnterSales(islandID, amount, notes)
	})
}

// AddDebtCollection resolves the debtor then allocates the amount.
func (s *Service) AddDebtCollection(ctx context.Context, shiftID, islandID, debtorID int64, amount float64) (SessionView, error) {
	debtor, err := s.debtors.Debtor(ctx, debtorID)
	if err != nil {
		return SessionView{}, &FetchError{Op: fmt.Sprintf("resolve debtor %d", debtorID), Err: err}
	}
	return s.mutate(shiftID, func(sess *Session) error {
		_, err := sess.AddDebtCollection(islandID, AddDebtCollectionInput{Debtor: debtor, Amount: amount})
		return err
	})
}

// RemoveCollection drops a collection entry.
func (s *Service) RemoveCollection(ctx context.Context, shiftID, islandID int64, collectionID string) (SessionView, error) {
	return s.mutate(shiftID, func(sess *Session) error {
		return sess.RemoveCollection(islandID, collectionID)
	})
}

// SetCash records the pending cash figure.
func (s *Service) SetCash(ctx context.Context, shiftID, islandID int64, value *float64) (SessionView, error) {
	return s.mutate(shiftID, func(sess *Session) error {
		return sess.SetCash(islandID, value)
	})
}

// SetReceipts records manual receipts.
func (s *Service) SetReceipts(ctx context.Context, shiftID, islandID int64, amount float64) (SessionView, error) {
	return s.mutate(shiftID, func(sess *Session) error {
		return sess.SetReceipts(islandID, amount)
	})
}

// RefreshExpenses re-resolves the cumulative expense total for an island.
// Superseded fetches are not cancelled; the last write wins.
func (s *Service) RefreshExpenses(ctx context.Context, shiftID, islandID int64) (SessionView, error) {
	total, err := s.expenses.CumulativeByShiftAndIsland(ctx, shiftID, islandID)
	if err != nil {
		return SessionView{}, &FetchError{Op: fmt.Sprintf("load expenses for island %d", islandID), Err: err}
	}
	return s.mutate(shiftID, func(sess *Session) error {
		return sess.RefreshExpenses(islandID, total)
	})
}

// ConfirmVariance acknowledges the reported variance.
func (s *Service) ConfirmVariance(ctx context.Context, shiftID int64) (SessionView, error) {
	return s.mutate(shiftID, func(sess *Session) error {
		return sess.ConfirmVariance()
	})
}

// Submit finalizes the session and hands the payload to the submission
// collaborator. The session is discarded once the hand-off succeeds.
func (s *Service) Submit(ctx context.Context, shiftID int64, in SubmitInput) (FinalSubmissionPayload, error) {
	var payload FinalSubmissionPayload
	var kind VarianceKind
	err := s.store.Update(shiftID, func(sess *Session) error {
		result := sess.Result()
		kind = Resolve(result.TotalDifference).Kind
		var err error
		payload, err = sess.Submit(in)
		return err
	})
	if err != nil {
		return FinalSubmissionPayload{}, err
	}
	if err := s.submit.Submit(ctx, payload); err != nil {
		// Reopen the session so the user can retry the hand-off.
		_ = s.store.Update(shiftID, func(sess *Session) error {
			sess.State = StateConfirmed
			return nil
		})
		return FinalSubmissionPayload{}, &FetchError{Op: fmt.Sprintf("submit shift %d", shiftID), Err: err}
	}
	s.store.Delete(shiftID)
	if s.recorder != nil {
		s.recorder.ShiftSubmitted(kind)
	}
	s.logger.Info("shift submitted",
		slog.Int64("shift_id", shiftID),
		slog.String("variance", string(kind)))
	return payload, nil
}

// Abandon discards an open session without submitting.
func (s *Service) Abandon(ctx context.Context, shiftID int64) {
	s.store.Delete(shiftID)
}

func (s *Service) mutate(shiftID int64, fn func(*Session) error) (SessionView, error) {
	var view SessionView
	err := s.store.Update(shiftID, func(sess *Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		view = s.view(sess)
		return nil
	})
	if err != nil {
		return SessionView{}, err
	}
	return view, nil
}

func (s *Service) view(sess *Session) SessionView {
	result := sess.Result()
	collections := make(map[int64][]Collection, len(result.Islands))
	for _, island := range result.Islands {
		list, err := sess.IslandCollections(island.IslandID)
		if err != nil {
			continue
		}
		collections[island.IslandID] = list
	}
	return SessionView{
		ShiftID:     sess.ShiftID,
		StationID:   sess.StationID,
		State:       sess.State,
		OpenedAt:    sess.OpenedAt,
		Result:      result,
		Collections: collections,
	}
}
