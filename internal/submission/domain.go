package submission

import (
	"errors"
	"time"
)

// Record is the durable row written when a reconciled shift is handed over.
type Record struct {
	ID          int64     `json:"id"`
	ShiftID     int64     `json:"shiftId"`
	RecordedBy  int64     `json:"recordedBy"`
	SubmittedAt time.Time `json:"submittedAt"`
	Dispatched  bool      `json:"dispatched"`
}

// LedgerEntry debits an attendant for a shortage or credits an overage.
type LedgerEntry struct {
	AttendantID int64   `json:"attendantId"`
	ShiftID     int64   `json:"shiftId"`
	Kind        string  `json:"kind"`
	Amount      float64 `json:"amount"`
}

// Ledger entry kinds.
const (
	LedgerShortageDebit = "SHORTAGE_DEBIT"
	LedgerOverageCredit = "OVERAGE_CREDIT"
)

// ErrAlreadySubmitted indicates the shift already has a submission record.
var ErrAlreadySubmitted = errors.New("submission: shift already submitted")
