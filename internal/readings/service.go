package readings

import "context"

type repository interface {
	LoadShift(ctx context.Context, shiftID int64) (int64, error)
	ListIslands(ctx context.Context, stationID int64) ([]Island, error)
	ListPumpReadings(ctx context.Context, shiftID int64) (map[int64][]Pump, error)
	ListAttendantAssignments(ctx context.Context, shiftID int64) (map[int64][]Attendant, error)
}

// Service assembles shift readings for the reconciliation step.
type Service struct {
	repo repository
}

// NewService constructs a Service instance.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// ShiftReadings loads the complete readings snapshot for a shift. Islands
// without pump readings are still included so the completeness gate covers
// every zone of the station.
func (s *Service) ShiftReadings(ctx context.Context, shiftID int64) (ShiftReadings, error) {
	stationID, err := s.repo.LoadShift(ctx, shiftID)
	if err != nil {
		return ShiftReadings{}, err
	}
	islands, err := s.repo.ListIslands(ctx, stationID)
	if err != nil {
		return ShiftReadings{}, err
	}
	pumps, err := s.repo.ListPumpReadings(ctx, shiftID)
	if err != nil {
		return ShiftReadings{}, err
	}
	attendants, err := s.repo.ListAttendantAssignments(ctx, shiftID)
	if err != nil {
		return ShiftReadings{}, err
	}
	out := ShiftReadings{
		ShiftID:   shiftID,
		StationID: stationID,
		Islands:   make([]Island, 0, len(islands)),
	}
	for _, island := range islands {
		island.Pumps = pumps[island.ID]
		island.Attendants = attendants[island.ID]
		out.Islands = append(out.Islands, island)
	}
	return out, nil
}
