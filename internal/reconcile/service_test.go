package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadings struct {
	data ReadingsData
	err  error
}

func (m *mockReadings) ShiftReadings(ctx context.Context, shiftID int64) (ReadingsData, error) {
	if m.err != nil {
		return ReadingsData{}, m.err
	}
	return m.data, nil
}

type mockDebtors struct {
	debtors map[int64]DebtorRef
	err     error
}

func (m *mockDebtors) Debtor(ctx context.Context, id int64) (DebtorRef, error) {
	if m.err != nil {
		return DebtorRef{}, m.err
	}
	debtor, ok := m.debtors[id]
	if !ok {
		return DebtorRef{}, errors.New("debtors: not found")
	}
	return debtor, nil
}

type mockExpenses struct {
	totals map[int64]float64
	err    error
	calls  int
}

func (m *mockExpenses) CumulativeByShiftAndIsland(ctx context.Context, shiftID, islandID int64) (float64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return m.totals[islandID], nil
}

type mockSubmitter struct {
	payloads []FinalSubmissionPayload
	err      error
}

func (m *mockSubmitter) Submit(ctx context.Context, payload FinalSubmissionPayload) error {
	if m.err != nil {
		return m.err
	}
	m.payloads = append(m.payloads, payload)
	return nil
}

type testDeps struct {
	readings  *mockReadings
	debtors   *mockDebtors
	expenses  *mockExpenses
	submitter *mockSubmitter
	store     *SessionStore
}

func newTestService(t *testing.T) (*Service, *testDeps) {
	t.Helper()
	deps := &testDeps{
		readings: &mockReadings{data: testReadings()},
		debtors: &mockDebtors{debtors: map[int64]DebtorRef{
			3: {ID: 3, Name: "Acme Transport", Code: "DEB-003"},
		}},
		expenses:  &mockExpenses{totals: map[int64]float64{1: 300}},
		submitter: &mockSubmitter{},
		store:     NewSessionStore(),
	}
	svc := NewService(deps.store, deps.readings, deps.debtors, deps.expenses, deps.submitter, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.WithNow(fixedClock())
	return svc, deps
}

func TestServiceOpenSession(t *testing.T) {
	svc, deps := newTestService(t)

	view, err := svc.OpenSession(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), view.ShiftID)
	assert.Equal(t, StateEntering, view.State)
	require.Len(t, view.Result.Islands, 1)
	assert.Equal(t, 300.0, view.Result.Islands[0].Expenses)
	assert.Equal(t, 1, deps.expenses.calls)

	// One open session per shift.
	_, err = svc.OpenSession(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSessionExists)
}

func TestServiceOpenSessionFetchFailure(t *testing.T) {
	svc, deps := newTestService(t)
	deps.expenses.err = errors.New("expenses: upstream down")

	_, err := svc.OpenSession(context.Background(), 42)
	require.Error(t, err)
	// Nothing half-opened: the user retries manually.
	assert.Equal(t, 0, deps.store.Len())
}

func TestServiceAddDebtCollectionResolvesDebtor(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.OpenSession(context.Background(), 42)
	require.NoError(t, err)
	_, err = svc.EnterSales(context.Background(), 42, 1, 10200, "")
	require.NoError(t, err)
	require.NoError(t, errSetReceipts(svc, 42, 1, 500))

	view, err := svc.AddDebtCollection(context.Background(), 42, 1, 3, 4000)
	require.NoError(t, err)
	list := view.Collections[1]
	require.Len(t, list, 1)
	assert.Equal(t, "Acme Transport", list[0].DebtorName)
	assert.Equal(t, "DEB-003", list[0].DebtorCode)

	// Unknown debtor fails before touching the session.
	_, err = svc.AddDebtCollection(context.Background(), 42, 1, 999, 100)
	require.Error(t, err)
	after, err := svc.GetSession(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, after.Collections[1], 1)
}

func errSetReceipts(svc *Service, shiftID, islandID int64, amount float64) error {
	_, err := svc.SetReceipts(context.Background(), shiftID, islandID, amount)
	return err
}

func TestServiceSubmitFlow(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()
	_, err := svc.OpenSession(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, errSetReceipts(svc, 42, 1, 500))
	_, err = svc.EnterSales(ctx, 42, 1, 10200, "")
	require.NoError(t, err)
	cash := 6000.0
	_, err = svc.SetCash(ctx, 42, 1, &cash)
	require.NoError(t, err)
	_, err = svc.AddDebtCollection(ctx, 42, 1, 3, 4000)
	require.NoError(t, err)

	in := submitInput()
	_, err = svc.Submit(ctx, 42, in)
	require.ErrorIs(t, err, ErrVarianceUnconfirmed)

	view, err := svc.ConfirmVariance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, view.State)

	payload, err := svc.Submit(ctx, 42, in)
	require.NoError(t, err)
	require.Len(t, deps.submitter.payloads, 1)
	assert.Equal(t, 200.0, payload.IslandCollections[0].ShortageAmount)

	// Session discarded after successful hand-off.
	_, err = svc.GetSession(ctx, 42)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServiceSubmitHandoffFailureReopens(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()
	_, err := svc.OpenSession(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, errSetReceipts(svc, 42, 1, 500))
	_, err = svc.EnterSales(ctx, 42, 1, 10200, "")
	require.NoError(t, err)
	cash := 10200.0
	_, err = svc.SetCash(ctx, 42, 1, &cash)
	require.NoError(t, err)

	deps.submitter.err = errors.New("submission: erp unreachable")
	_, err = svc.Submit(ctx, 42, submitInput())
	require.Error(t, err)

	// Session stays retryable.
	deps.submitter.err = nil
	_, err = svc.Submit(ctx, 42, submitInput())
	require.NoError(t, err)
	assert.Len(t, deps.submitter.payloads, 1)
}

func TestServiceRefreshExpensesLastWriteWins(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()
	_, err := svc.OpenSession(ctx, 42)
	require.NoError(t, err)

	deps.expenses.totals[1] = 450
	view, err := svc.RefreshExpenses(ctx, 42, 1)
	require.NoError(t, err)
	assert.Equal(t, 450.0, view.Result.Islands[0].Expenses)
}

func TestServiceSessionClock(t *testing.T) {
	svc, _ := newTestService(t)
	view, err := svc.OpenSession(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC), view.OpenedAt)
}
