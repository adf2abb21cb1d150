package reconcile

import (
	"errors"
	"time"
)

// CollectionType distinguishes how money was collected against an island.
type CollectionType string

const (
	CollectionCash CollectionType = "CASH"
	CollectionDebt CollectionType = "DEBT"
)

// SessionState captures the reconciliation workflow lifecycle.
type SessionState string

const (
	// StateEntering allows sales and collection mutations.
	StateEntering SessionState = "ENTERING"
	// StateAwaitingVarianceConfirmation blocks submission until the recorded
	// variance is explicitly acknowledged.
	StateAwaitingVarianceConfirmation SessionState = "AWAITING_VARIANCE_CONFIRMATION"
	// StateConfirmed indicates the variance was acknowledged.
	StateConfirmed SessionState = "CONFIRMED"
	// StateSubmitted indicates the final payload was handed off.
	StateSubmitted SessionState = "SUBMITTED"
)

// VarianceKind classifies a finalized variance.
type VarianceKind string

const (
	VarianceOverage  VarianceKind = "OVERAGE"
	VarianceShortage VarianceKind = "SHORTAGE"
	VarianceBalanced VarianceKind = "BALANCED"
)

// Pump carries the already-computed expected sales for one dispenser.
// Meter-delta times unit-price happens upstream in the readings step.
type Pump struct {
	Name          string
	ExpectedSales float64
}

// Attendant is a staff member assigned to an island for the shift.
type Attendant struct {
	ID        int64
	FirstName string
	LastName  string
}

// Island is a physical dispensing zone. Immutable for the duration of one
// shift-close session.
type Island struct {
	ID         int64
	Name       string
	Pumps      []Pump
	Attendants []Attendant
}

// ReadingsData seeds a reconciliation session from the shift readings step.
type ReadingsData struct {
	ShiftID   int64
	StationID int64
	Islands   []Island
}

// SalesEntry holds the actual island total entered by the user.
type SalesEntry struct {
	IslandTotalSales float64
	Notes            string
}

// DebtorRef identifies the debtor stamped onto a debt collection.
type DebtorRef struct {
	ID   int64
	Name string
	Code string
}

// Collection is one allocation record against an island's expected amount.
// Debtor fields are populated only for debt collections.
type Collection struct {
	ID         string
	Type       CollectionType
	Amount     float64
	DebtorID   int64
	DebtorName string
	DebtorCode string
	RecordedAt time.Time
}

// IslandResult is the derived reconciliation outcome for one island.
type IslandResult struct {
	IslandID                     int64
	IslandName                   string
	TotalPumpSales               float64
	TotalActualSales             float64
	CashCollection               float64
	DebtCollection               float64
	TotalCollection              float64
	Expenses                     float64
	Receipts                     float64
	TotalExpected                float64
	TotalExpectedWithCollections float64
	TotalDifference              float64
	HasSales                     bool
	HasCollections               bool
	IsComplete                   bool
}

// ShiftResult aggregates island results into shift-level totals.
type ShiftResult struct {
	ShiftID                      int64
	StationID                    int64
	TotalPumpSales               float64
	TotalActualSales             float64
	CashCollection               float64
	DebtCollection               float64
	TotalCollection              float64
	Expenses                     float64
	Receipts                     float64
	TotalExpected                float64
	TotalExpectedWithCollections float64
	TotalDifference              float64
	TotalIslands                 int
	CompletedIslands             int
	AllIslandsComplete           bool
	Islands                      []IslandResult
}

// VarianceResolution classifies a variance and carries its magnitude.
type VarianceResolution struct {
	Kind   VarianceKind
	Amount float64
}

// FinalizeResult is returned by the allocator once cash is folded in.
type FinalizeResult struct {
	Collections    []Collection
	TotalCollected float64
	Variance       float64
}

// DebtorCollectionPayload is one debtor line in the submission payload.
type DebtorCollectionPayload struct {
	DebtorID int64   `json:"debtorId"`
	Amount   float64 `json:"amount"`
}

// IslandCollectionPayload carries one island's settled figures.
type IslandCollectionPayload struct {
	IslandID           int64                     `json:"islandId"`
	AttendantID        int64                     `json:"attendantId"`
	CashAmount         float64                   `json:"cashAmount"`
	ReceiptsAmount     float64                   `json:"receiptsAmount"`
	ExpectedCashAmount float64                   `json:"expectedCashAmount"`
	DebtorCollections  []DebtorCollectionPayload `json:"debtorCollections"`
	ExpensesAmount     float64                   `json:"expensesAmount"`
	ShortageAmount     float64                   `json:"shortageAmount"`
	OverageAmount      float64                   `json:"overageAmount"`
}

// FinalSubmissionPayload is handed to the submission collaborator, which owns
// durable persistence and any attendant account debit or credit.
type FinalSubmissionPayload struct {
	ShiftID             int64                     `json:"shiftId"`
	RecordedByID        int64                     `json:"recordedById"`
	EndTime             time.Time                 `json:"endTime"`
	PumpReadings        []PumpReadingPayload      `json:"pumpReadings"`
	TankReadings        []TankReadingPayload      `json:"tankReadings"`
	IslandCollections   []IslandCollectionPayload `json:"islandCollections"`
	ReconciliationNotes string                    `json:"reconciliationNotes"`
	EmergencyClosure    bool                      `json:"emergencyClosure"`
}

// PumpReadingPayload echoes the pump totals back to the submission step.
type PumpReadingPayload struct {
	IslandID int64   `json:"islandId"`
	PumpName string  `json:"pumpName"`
	Amount   float64 `json:"amount"`
}

// TankReadingPayload carries closing tank dips when supplied by the caller.
type TankReadingPayload struct {
	TankID int64   `json:"tankId"`
	Level  float64 `json:"level"`
}

// AddDebtCollectionInput bundles parameters for allocating debt.
type AddDebtCollectionInput struct {
	Debtor DebtorRef
	Amount float64
}

// Validate checks fields the allocator cannot default.
func (in AddDebtCollectionInput) Validate() error {
	if in.Debtor.ID == 0 {
		return ErrDebtorRequired
	}
	if in.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}

// SubmitInput carries the submission metadata entered on the final step.
type SubmitInput struct {
	RecordedByID        int64
	EndTime             time.Time
	TankReadings        []TankReadingPayload
	ReconciliationNotes string
	EmergencyClosure    bool
}

// Validate ensures submit metadata is coherent.
func (in SubmitInput) Validate() error {
	if in.RecordedByID == 0 {
		return errors.New("reconcile: recorded by required")
	}
	if in.EndTime.IsZero() {
		return errors.New("reconcile: end time required")
	}
	return nil
}

// ErrDebtorRequired is returned when a debt collection lacks a debtor.
var ErrDebtorRequired = errors.New("reconcile: debtor required for debt collection")

// ErrNonPositiveAmount is returned for zero or negative collection amounts.
var ErrNonPositiveAmount = errors.New("reconcile: amount must be greater than zero")

// ErrOverAllocation is returned when an amount exceeds the remaining
// allocatable balance at insertion time.
var ErrOverAllocation = errors.New("reconcile: amount exceeds remaining allocatable balance")

// ErrNegativeSales is returned for negative island sales entries.
var ErrNegativeSales = errors.New("reconcile: island sales cannot be negative")

// ErrSessionNotFound indicates no open session for the shift.
var ErrSessionNotFound = errors.New("reconcile: session not found")

// ErrSessionExists indicates a session is already open for the shift.
var ErrSessionExists = errors.New("reconcile: session already open for shift")

// ErrIslandNotFound indicates the island is not part of the session readings.
var ErrIslandNotFound = errors.New("reconcile: island not found in session")

// ErrIncompleteReconciliation gates submission while islands are outstanding.
var ErrIncompleteReconciliation = errors.New("reconcile: not all islands are complete")

// ErrVarianceUnconfirmed blocks submission until a non-zero variance is
// explicitly acknowledged.
var ErrVarianceUnconfirmed = errors.New("reconcile: variance must be confirmed before submit")

// ErrAlreadySubmitted indicates the session already produced a payload.
var ErrAlreadySubmitted = errors.New("reconcile: shift already submitted")

// FetchError wraps a failed collaborator fetch. The failure is recoverable;
// the caller retries the operation manually.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return "reconcile: " + e.Op + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }
