package reconcilehttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/johnkamauwamunga/energy-erp-sub000/internal/reconcile"
)

type stubService struct {
	openFn    func(ctx context.Context, shiftID int64) (reconcile.SessionView, error)
	getFn     func(ctx context.Context, shiftID int64) (reconcile.SessionView, error)
	salesFn   func(ctx context.Context, shiftID, islandID int64, amount float64, notes string) (reconcile.SessionView, error)
	addFn     func(ctx context.Context, shiftID, islandID, debtorID int64, amount float64) (reconcile.SessionView, error)
	removeFn  func(ctx context.Context, shiftID, islandID int64, collectionID string) (reconcile.SessionView, error)
	cashFn    func(ctx context.Context, shiftID, islandID int64, value *float64) (reconcile.SessionView, error)
	confirmFn func(ctx context.Context, shiftID int64) (reconcile.SessionView, error)
	submitFn  func(ctx context.Context, shiftID int64, in reconcile.SubmitInput) (reconcile.FinalSubmissionPayload, error)
}

func (s *stubService) OpenSession(ctx context.Context, shiftID int64) (reconcile.SessionView, error) {
	return s.openFn(ctx, shiftID)
}

func (s *stubService) GetSession(ctx context.Context, shiftID int64) (reconcile.SessionView, error) {
	return s.getFn(ctx, shiftID)
}

func (s *stubService) EnterSales(ctx context.Context, shiftID, islandID int64, amount float64, notes string) (reconcile.SessionView, error) {
	return s.salesFn(ctx, shiftID, islandID, amount, notes)
}

func (s *stubService) AddDebtCollection(ctx context.Context, shiftID, islandID, debtorID int64, amount float64) (reconcile.SessionView, error) {
	return s.addFn(ctx, shiftID, islandID, debtorID, amount)
}

func (s *stubService) RemoveCollection(ctx context.Context, shiftID, islandID int64, collectionID string) (reconcile.SessionView, error) {
	return s.removeFn(ctx, shiftID, islandID, collectionID)
}

func (s *stubService) SetCash(ctx context.Context, shiftID, islandID int64, value *float64) (reconcile.SessionView, error) {
	return s.cashFn(ctx, shiftID, islandID, value)
}

func (s *stubService) SetReceipts(ctx context.Context, shiftID, islandID int64, amount float64) (reconcile.SessionView, error) {
	return reconcile.SessionView{}, nil
}

func (s *stubService) RefreshExpenses(ctx context.Context, shiftID, islandID int64) (reconcile.SessionView, error) {
	return reconcile.SessionView{}, nil
}

func (s *stubService) ConfirmVariance(ctx context.Context, shiftID int64) (reconcile.SessionView, error) {
	return s.confirmFn(ctx, shiftID)
}

func (s *stubService) Submit(ctx context.Context, shiftID int64, in reconcile.SubmitInput) (reconcile.FinalSubmissionPayload, error) {
	return s.submitFn(ctx, shiftID, in)
}

func (s *stubService) Abandon(ctx context.Context, shiftID int64) {}

func newTestRouter(t *testing.T, svc reconcileService) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, svc)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestOpenSessionCreated(t *testing.T) {
	svc := &stubService{
		openFn: func(ctx context.Context, shiftID int64) (reconcile.SessionView, error) {
			if shiftID != 42 {
				t.Fatalf("expected shift 42, got %d", shiftID)
			}
			return reconcile.SessionView{ShiftID: 42, State: reconcile.StateEntering}, nil
		},
	}
	router := newTestRouter(t, svc)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/shifts/42/reconciliation", nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	var view reconcile.SessionView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.ShiftID != 42 || view.State != reconcile.StateEntering {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestOpenSessionInvalidShiftID(t *testing.T) {
	router := newTestRouter(t, &stubService{})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/shifts/abc/reconciliation", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAddCollectionValidatesBody(t *testing.T) {
	router := newTestRouter(t, &stubService{})
	body := strings.NewReader(`{"debtorId": 0, "amount": -5}`)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/shifts/42/reconciliation/islands/1/collections", body))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestAddCollectionOverAllocation(t *testing.T) {
	svc := &stubService{
		addFn: func(ctx context.Context, shiftID, islandID, debtorID int64, amount float64) (reconcile.SessionView, error) {
			return reconcile.SessionView{}, reconcile.ErrOverAllocation
		},
	}
	router := newTestRouter(t, svc)
	body := strings.NewReader(`{"debtorId": 3, "amount": 12000}`)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/shifts/42/reconciliation/islands/1/collections", body))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "remaining allocatable balance") {
		t.Fatalf("expected allocation detail, got %s", rr.Body.String())
	}
}

func TestSubmitVarianceUnconfirmed(t *testing.T) {
	svc := &stubService{
		submitFn: func(ctx context.Context, shiftID int64, in reconcile.SubmitInput) (reconcile.FinalSubmissionPayload, error) {
			return reconcile.FinalSubmissionPayload{}, reconcile.ErrVarianceUnconfirmed
		},
	}
	router := newTestRouter(t, svc)
	body := strings.NewReader(`{"recordedById": 5, "endTime": "2025-06-01T20:00:00Z"}`)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/shifts/42/reconciliation/submit", body))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	svc := &stubService{
		getFn: func(ctx context.Context, shiftID int64) (reconcile.SessionView, error) {
			return reconcile.SessionView{}, reconcile.ErrSessionNotFound
		},
	}
	router := newTestRouter(t, svc)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/shifts/42/reconciliation", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestOpenSessionFetchFailureIsRetryable(t *testing.T) {
	svc := &stubService{
		openFn: func(ctx context.Context, shiftID int64) (reconcile.SessionView, error) {
			return reconcile.SessionView{}, &reconcile.FetchError{Op: "load readings", Err: errors.New("timeout")}
		},
	}
	router := newTestRouter(t, svc)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/shifts/42/reconciliation", nil))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
}
