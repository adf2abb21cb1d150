package reconcile

import (
	"sort"
	"strconv"
	"time"
)

// Session is the explicit, in-memory state of one shift-close reconciliation.
// It is seeded from the shift readings step, mutated as the user enters sales
// and collections, and superseded the moment the final payload is built.
// Nothing here is persisted; losing the session before submit loses the
// entered figures, which is acceptable because a reconciliation is expected
// to finish within a single sitting.
type Session struct {
	ShiftID   int64
	StationID int64
	State     SessionState
	OpenedAt  time.Time

	readings  ReadingsData
	islands   map[int64]*islandState
	allocator *Allocator
}

type islandState struct {
	island      Island
	sales       SalesEntry
	collections []Collection
	pendingCash float64
	receipts    float64
	expenses    float64
}

// NewSession seeds a session from readings and pre-fetched expense totals.
func NewSession(readings ReadingsData, expensesByIsland map[int64]float64, openedAt time.Time) *Session {
	s := &Session{
		ShiftID:   readings.ShiftID,
		StationID: readings.StationID,
		State:     StateEntering,
		OpenedAt:  openedAt,
		readings:  readings,
		islands:   make(map[int64]*islandState, len(readings.Islands)),
		allocator: NewAllocator(),
	}
	for _, island := range readings.Islands {
		s.islands[island.ID] = &islandState{
			island:   island,
			expenses: expensesByIsland[island.ID],
		}
	}
	return s
}

// WithNow overrides the allocator clock for deterministic tests.
func (s *Session) WithNow(now func() time.Time) {
	s.allocator.WithNow(now)
}

// Readings returns the immutable readings the session was seeded from.
func (s *Session) Readings() ReadingsData {
	return s.readings
}

// EnterSales records the actual island total entered by the user.
func (s *Session) EnterSales(islandID int64, amount float64, notes string) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if amount < 0 {
		return ErrNegativeSales
	}
	state, ok := s.islands[islandID]
	if !ok {
		return ErrIslandNotFound
	}
	state.sales = SalesEntry{IslandTotalSales: amount, Notes: notes}
	s.invalidateConfirmation()
	return nil
}

// AddDebtCollection allocates a debt entry against the island's remaining
// balance. The cap is checked at insertion time only, per the allocation
// invariant; edits elsewhere do not trigger a global re-validation.
func (s *Session) AddDebtCollection(islandID int64, in AddDebtCollectionInput) (Collection, error) {
	if err := s.ensureMutable(); err != nil {
		return Collection{}, err
	}
	state, ok := s.islands[islandID]
	if !ok {
		return Collection{}, ErrIslandNotFound
	}
	expected := ComputeExpected(state.island, state.receipts, state.expenses)
	remaining := Remaining(expected, state.collections, state.pendingCash)
	next, err := s.allocator.AddDebtCollection(in, state.collections, remaining)
	if err != nil {
		return Collection{}, err
	}
	state.collections = next
	s.invalidateConfirmation()
	return next[len(next)-1], nil
}

// RemoveCollection drops a collection entry by id. Removing the synthetic
// cash entry clears the pending cash amount; unknown ids are a no-op.
func (s *Session) RemoveCollection(islandID int64, collectionID string) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	state, ok := s.islands[islandID]
	if !ok {
		return ErrIslandNotFound
	}
	if collectionID == cashCollectionID(islandID) {
		state.pendingCash = 0
	} else {
		state.collections = s.allocator.RemoveCollection(collectionID, state.collections)
	}
	s.invalidateConfirmation()
	return nil
}

// SetCash records the pending cash figure for an island. A nil value is
// normalized to zero; no upper clamp is applied while the user types.
func (s *Session) SetCash(islandID int64, value *float64) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	state, ok := s.islands[islandID]
	if !ok {
		return ErrIslandNotFound
	}
	state.pendingCash = NormalizeCashAmount(value)
	s.invalidateConfirmation()
	return nil
}

// SetReceipts records manually entered receipts for an island.
func (s *Session) SetReceipts(islandID int64, amount float64) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if amount < 0 {
		return ErrNonPositiveAmount
	}
	state, ok := s.islands[islandID]
	if !ok {
		return ErrIslandNotFound
	}
	state.receipts = amount
	s.invalidateConfirmation()
	return nil
}

// RefreshExpenses replaces the cumulative expense total for an island after
// the expense collaborator resolves a newer figure. Last write wins.
func (s *Session) RefreshExpenses(islandID int64, cumulative float64) error {
	state, ok := s.islands[islandID]
	if !ok {
		return ErrIslandNotFound
	}
	state.expenses = cumulative
	return nil
}

// IslandCollections returns the island's collection list with the pending
// cash folded in as a synthetic entry carrying a stable "cash-" id.
func (s *Session) IslandCollections(islandID int64) ([]Collection, error) {
	state, ok := s.islands[islandID]
	if !ok {
		return nil, ErrIslandNotFound
	}
	return s.collectionsWithCash(islandID, state), nil
}

// Result aggregates the current session state into a shift result.
func (s *Session) Result() ShiftResult {
	in := AggregateInput{
		ShiftID:             s.ShiftID,
		StationID:           s.StationID,
		Islands:             s.readings.Islands,
		SalesEntries:        make(map[int64]SalesEntry, len(s.islands)),
		CollectionsByIsland: make(map[int64][]Collection, len(s.islands)),
		ExpensesByIsland:    make(map[int64]float64, len(s.islands)),
		ReceiptsByIsland:    make(map[int64]float64, len(s.islands)),
	}
	for id, state := range s.islands {
		in.SalesEntries[id] = state.sales
		in.CollectionsByIsland[id] = s.collectionsWithCash(id, state)
		in.ExpensesByIsland[id] = state.expenses
		in.ReceiptsByIsland[id] = state.receipts
	}
	return Aggregate(in)
}

// ConfirmVariance acknowledges a reported non-zero variance. Only valid
// while the session is awaiting confirmation.
func (s *Session) ConfirmVariance() error {
	switch s.State {
	case StateAwaitingVarianceConfirmation:
		s.State = StateConfirmed
		return nil
	case StateSubmitted:
		return ErrAlreadySubmitted
	default:
		return ErrVarianceUnconfirmed
	}
}

// Submit gates on completeness and variance confirmation, then builds the
// final payload and seals the session. A non-zero shift variance moves the
// session into the awaiting-confirmation state instead of submitting.
func (s *Session) Submit(in SubmitInput) (FinalSubmissionPayload, error) {
	if s.State == StateSubmitted {
		return FinalSubmissionPayload{}, ErrAlreadySubmitted
	}
	if err := in.Validate(); err != nil {
		return FinalSubmissionPayload{}, err
	}
	result := s.Result()
	if !result.AllIslandsComplete {
		return FinalSubmissionPayload{}, ErrIncompleteReconciliation
	}
	resolution := Resolve(result.TotalDifference)
	if resolution.Kind != VarianceBalanced && s.State != StateConfirmed {
		s.State = StateAwaitingVarianceConfirmation
		return FinalSubmissionPayload{}, ErrVarianceUnconfirmed
	}
	payload := s.buildPayload(in, result)
	s.State = StateSubmitted
	return payload, nil
}

func (s *Session) buildPayload(in SubmitInput, result ShiftResult) FinalSubmissionPayload {
	payload := FinalSubmissionPayload{
		ShiftID:             s.ShiftID,
		RecordedByID:        in.RecordedByID,
		EndTime:             in.EndTime,
		TankReadings:        in.TankReadings,
		ReconciliationNotes: in.ReconciliationNotes,
		EmergencyClosure:    in.EmergencyClosure,
	}
	for _, island := range s.readings.Islands {
		for _, pump := range island.Pumps {
			payload.PumpReadings = append(payload.PumpReadings, PumpReadingPayload{
				IslandID: island.ID,
				PumpName: pump.Name,
				Amount:   pump.ExpectedSales,
			})
		}
	}
	for _, islandResult := range result.Islands {
		state := s.islands[islandResult.IslandID]
		resolution := Resolve(islandResult.TotalDifference)
		entry := IslandCollectionPayload{
			IslandID:           islandResult.IslandID,
			AttendantID:        primaryAttendant(state.island),
			CashAmount:         round2(state.pendingCash),
			ReceiptsAmount:     islandResult.Receipts,
			ExpectedCashAmount: islandResult.TotalExpected,
			DebtorCollections:  groupDebtorCollections(state.collections),
			ExpensesAmount:     islandResult.Expenses,
		}
		switch resolution.Kind {
		case VarianceShortage:
			entry.ShortageAmount = resolution.Amount
		case VarianceOverage:
			entry.OverageAmount = resolution.Amount
		}
		payload.IslandCollections = append(payload.IslandCollections, entry)
	}
	return payload
}

func (s *Session) collectionsWithCash(islandID int64, state *islandState) []Collection {
	collections := make([]Collection, 0, len(state.collections)+1)
	collections = append(collections, state.collections...)
	if state.pendingCash > 0 {
		collections = append(collections, Collection{
			ID:     cashCollectionID(islandID),
			Type:   CollectionCash,
			Amount: round2(state.pendingCash),
		})
	}
	return collections
}

func (s *Session) ensureMutable() error {
	if s.State == StateSubmitted {
		return ErrAlreadySubmitted
	}
	return nil
}

// invalidateConfirmation drops a stale acknowledgement once figures change.
func (s *Session) invalidateConfirmation() {
	if s.State == StateAwaitingVarianceConfirmation || s.State == StateConfirmed {
		s.State = StateEntering
	}
}

func cashCollectionID(islandID int64) string {
	return "cash-" + strconv.FormatInt(islandID, 10)
}

func primaryAttendant(island Island) int64 {
	if len(island.Attendants) == 0 {
		return 0
	}
	return island.Attendants[0].ID
}

func groupDebtorCollections(collections []Collection) []DebtorCollectionPayload {
	totals := make(map[int64]float64)
	for _, c := range collections {
		if c.Type != CollectionDebt {
			continue
		}
		totals[c.DebtorID] += c.Amount
	}
	ids := make([]int64, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	payload := make([]DebtorCollectionPayload, 0, len(ids))
	for _, id := range ids {
		payload = append(payload, DebtorCollectionPayload{DebtorID: id, Amount: round2(totals[id])})
	}
	return payload
}
