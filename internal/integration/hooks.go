package integration

import (
	"context"

	"github.com/johnkamauwamunga/energy-erp-sub000/internal/debtors"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/readings"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/reconcile"
)

// ReadingsHook adapts the readings service to the reconciliation session's
// seed-data contract.
type ReadingsHook struct {
	service *readings.Service
}

// NewReadingsHook constructs the adapter.
func NewReadingsHook(service *readings.Service) *ReadingsHook {
	return &ReadingsHook{service: service}
}

// ShiftReadings loads and converts the shift's seed data.
func (h *ReadingsHook) ShiftReadings(ctx context.Context, shiftID int64) (reconcile.ReadingsData, error) {
	data, err := h.service.ShiftReadings(ctx, shiftID)
	if err != nil {
		return reconcile.ReadingsData{}, err
	}
	return mapReadings(data), nil
}

// DebtorHook adapts the debtors service for collection stamping.
type DebtorHook struct {
	service *debtors.Service
}

// NewDebtorHook constructs the adapter.
func NewDebtorHook(service *debtors.Service) *DebtorHook {
	return &DebtorHook{service: service}
}

// Debtor resolves a debtor reference by id.
func (h *DebtorHook) Debtor(ctx context.Context, id int64) (reconcile.DebtorRef, error) {
	debtor, err := h.service.Get(ctx, id)
	if err != nil {
		return reconcile.DebtorRef{}, err
	}
	return reconcile.DebtorRef{ID: debtor.ID, Name: debtor.Name, Code: debtor.Code}, nil
}
