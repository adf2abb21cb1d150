package readings

import "errors"

// Pump carries one dispenser's expected sales for a shift, computed upstream
// from meter-reading deltas times unit price when the readings step closes.
type Pump struct {
	Name          string  `json:"pumpName"`
	ExpectedSales float64 `json:"expectedSales"`
}

// Attendant is a staff member assigned to an island for the shift.
type Attendant struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Island groups the pumps and attendants of one dispensing zone.
type Island struct {
	ID         int64       `json:"islandId"`
	Name       string      `json:"islandName"`
	Pumps      []Pump      `json:"pumps"`
	Attendants []Attendant `json:"attendants"`
}

// ShiftReadings is the seed data handed to the reconciliation step.
type ShiftReadings struct {
	ShiftID   int64    `json:"shiftId"`
	StationID int64    `json:"stationId"`
	Islands   []Island `json:"islands"`
}

// ErrShiftNotFound indicates no readings exist for the shift.
var ErrShiftNotFound = errors.New("readings: shift not found")
