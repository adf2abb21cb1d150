package integration

import (
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/readings"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/reconcile"
)

func mapReadings(data readings.ShiftReadings) reconcile.ReadingsData {
	out := reconcile.ReadingsData{
		ShiftID:   data.ShiftID,
		StationID: data.StationID,
		Islands:   make([]reconcile.Island, 0, len(data.Islands)),
	}
	for _, island := range data.Islands {
		mapped := reconcile.Island{ID: island.ID, Name: island.Name}
		for _, pump := range island.Pumps {
			mapped.Pumps = append(mapped.Pumps, reconcile.Pump{
				Name:          pump.Name,
				ExpectedSales: pump.ExpectedSales,
			})
		}
		for _, attendant := range island.Attendants {
			mapped.Attendants = append(mapped.Attendants, reconcile.Attendant{
				ID:        attendant.ID,
				FirstName: attendant.FirstName,
				LastName:  attendant.LastName,
			})
		}
		out.Islands = append(out.Islands, mapped)
	}
	return out
}
