package debtors

import (
	"errors"
	"strings"
	"time"
)

// Debtor is a credit customer that can be charged during shift close.
type Debtor struct {
	ID            int64     `json:"id"`
	StationID     int64     `json:"stationId"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	Phone         string    `json:"phone"`
	ContactPerson string    `json:"contactPerson"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateDebtorInput captures validation rules for new debtors.
type CreateDebtorInput struct {
	StationID     int64
	Name          string
	Code          string
	Phone         string
	ContactPerson string
}

// Validate ensures the create input is coherent.
func (in CreateDebtorInput) Validate() error {
	if in.StationID == 0 {
		return errors.New("debtors: station id required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("debtors: name required")
	}
	if strings.TrimSpace(in.Code) == "" {
		return errors.New("debtors: code required")
	}
	return nil
}

// UpdateDebtorInput captures mutable debtor fields.
type UpdateDebtorInput struct {
	Name          string
	Phone         string
	ContactPerson string
}

// ErrNotFound indicates the debtor does not exist.
var ErrNotFound = errors.New("debtors: not found")

// ErrCodeTaken indicates the debtor code is already in use at the station.
var ErrCodeTaken = errors.New("debtors: code already in use")

// ErrQueryTooShort indicates the search query is below the minimum length.
var ErrQueryTooShort = errors.New("debtors: query below minimum length")
