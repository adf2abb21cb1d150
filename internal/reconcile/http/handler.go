package reconcilehttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/johnkamauwamunga/energy-erp-sub000/internal/platform/httpx"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/reconcile"
)

type reconcileService interface {
	OpenSession(ctx context.Context, shiftID int64) (reconcile.SessionView, error)
	GetSession(ctx context.Context, shiftID int64) (reconcile.SessionView, error)
	EnterSales(ctx context.Context, shiftID, islandID int64, amount float64, notes string) (reconcile.SessionView, error)
	AddDebtCollection(ctx context.Context, shiftID, islandID, debtorID int64, amount float64) (reconcile.SessionView, error)
	RemoveCollection(ctx context.Context, shiftID, islandID int64, collectionID string) (reconcile.SessionView, error)
	SetCash(ctx context.Context, shiftID, islandID int64, value *float64) (reconcile.SessionView, error)
	SetReceipts(ctx context.Context, shiftID, islandID int64, amount float64) (reconcile.SessionView, error)
	RefreshExpenses(ctx context.Context, shiftID, islandID int64) (reconcile.SessionView, error)
	ConfirmVariance(ctx context.Context, shiftID int64) (reconcile.SessionView, error)
	Submit(ctx context.Context, shiftID int64, in reconcile.SubmitInput) (reconcile.FinalSubmissionPayload, error)
	Abandon(ctx context.Context, shiftID int64)
}

// Handler wires HTTP endpoints for the shift reconciliation workflow.
type Handler struct {
	logger   *slog.Logger
	service  reconcileService
	validate *validator.Validate
}

// NewHandler constructs a reconciliation HTTP handler.
func NewHandler(logger *slog.Logger, service reconcileService) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers reconciliation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/shifts/{shiftID}/reconciliation", func(r chi.Router) {
		r.Post("/", h.openSession)
		r.Get("/", h.getSession)
		r.Delete("/", h.abandonSession)
		r.Put("/islands/{islandID}/sales", h.enterSales)
		r.Put("/islands/{islandID}/cash", h.setCash)
		r.Put("/islands/{islandID}/receipts", h.setReceipts)
		r.Post("/islands/{islandID}/collections", h.addCollection)
		r.Delete("/islands/{islandID}/collections/{collectionID}", h.removeCollection)
		r.Post("/islands/{islandID}/expenses/refresh", h.refreshExpenses)
		r.Post("/confirm-variance", h.confirmVariance)
		r.Post("/submit", h.submit)
	})
}

type salesRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
	Notes  string  `json:"notes"`
}

type cashRequest struct {
	Amount *float64 `json:"amount"`
}

type receiptsRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
}

type collectionRequest struct {
	DebtorID int64   `json:"debtorId" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
}

type submitRequest struct {
	RecordedByID        int64                           `json:"recordedById" validate:"required"`
	EndTime             time.Time                       `json:"endTime" validate:"required"`
	TankReadings        []reconcile.TankReadingPayload  `json:"tankReadings"`
	ReconciliationNotes string                          `json:"reconciliationNotes"`
	EmergencyClosure    bool                            `json:"emergencyClosure"`
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}
	view, err := h.service.OpenSession(r.Context(), shiftID)
	if err != nil {
		h.respondError(w, r, "open session", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}
	view, err := h.service.GetSession(r.Context(), shiftID)
	if err != nil {
		h.respondError(w, r, "get session", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) abandonSession(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}
	h.service.Abandon(r.Context(), shiftID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) enterSales(w http.ResponseWriter, r *http.Request) {
	shiftID, islandID, ok := h.islandScope(w, r)
	if !ok {
		return
	}
	var req salesRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.EnterSales(r.Context(), shiftID, islandID, req.Amount, req.Notes)
	if err != nil {
		h.respondError(w, r, "enter sales", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) setCash(w http.ResponseWriter, r *http.Request) {
	shiftID, islandID, ok := h.islandScope(w, r)
	if !ok {
		return
	}
	var req cashRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.SetCash(r.Context(), shiftID, islandID, req.Amount)
	if err != nil {
		h.respondError(w, r, "set cash", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) setReceipts(w http.ResponseWriter, r *http.Request) {
	shiftID, islandID, ok := h.islandScope(w, r)
	if !ok {
		return
	}
	var req receiptsRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.SetReceipts(r.Context(), shiftID, islandID, req.Amount)
	if err != nil {
		h.respondError(w, r, "set receipts", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) addCollection(w http.ResponseWriter, r *http.Request) {
	shiftID, islandID, ok := h.islandScope(w, r)
	if !ok {
		return
	}
	var req collectionRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.AddDebtCollection(r.Context(), shiftID, islandID, req.DebtorID, req.Amount)
	if err != nil {
		h.respondError(w, r, "add collection", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) removeCollection(w http.ResponseWriter, r *http.Request) {
	shiftID, islandID, ok := h.islandScope(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")
	view, err := h.service.RemoveCollection(r.Context(), shiftID, islandID, collectionID)
	if err != nil {
		h.respondError(w, r, "remove collection", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) refreshExpenses(w http.ResponseWriter, r *http.Request) {
	shiftID, islandID, ok := h.islandScope(w, r)
	if !ok {
		return
	}
	view, err := h.service.RefreshExpenses(r.Context(), shiftID, islandID)
	if err != nil {
		h.respondError(w, r, "refresh expenses", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) confirmVariance(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}
	view, err := h.service.ConfirmVariance(r.Context(), shiftID)
	if err != nil {
		h.respondError(w, r, "confirm variance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if !h.decode(w, r, &req) {
		return
	}
	payload, err := h.service.Submit(r.Context(), shiftID, reconcile.SubmitInput{
		RecordedByID:        req.RecordedByID,
		EndTime:             req.EndTime,
		TankReadings:        req.TankReadings,
		ReconciliationNotes: req.ReconciliationNotes,
		EmergencyClosure:    req.EmergencyClosure,
	})
	if err != nil {
		h.respondError(w, r, "submit shift", err)
		return
	}
	httpx.JSON(w, http.StatusOK, payload)
}

func (h *Handler) shiftID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "shiftID"), 10, 64)
	if err != nil || id == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid shift id")
		return 0, false
	}
	return id, true
}

func (h *Handler) islandScope(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	shiftID, ok := h.shiftID(w, r)
	if !ok {
		return 0, 0, false
	}
	islandID, err := strconv.ParseInt(chi.URLParam(r, "islandID"), 10, 64)
	if err != nil || islandID == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid island id")
		return 0, 0, false
	}
	return shiftID, islandID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, reconcile.ErrSessionNotFound),
		errors.Is(err, reconcile.ErrIslandNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, reconcile.ErrSessionExists),
		errors.Is(err, reconcile.ErrAlreadySubmitted):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, reconcile.ErrDebtorRequired),
		errors.Is(err, reconcile.ErrNonPositiveAmount),
		errors.Is(err, reconcile.ErrNegativeSales),
		errors.Is(err, reconcile.ErrOverAllocation):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, reconcile.ErrIncompleteReconciliation),
		errors.Is(err, reconcile.ErrVarianceUnconfirmed):
		httpx.Problem(w, http.StatusConflict, "Reconciliation Incomplete", err.Error())
	default:
		var fetchErr *reconcile.FetchError
		if errors.As(err, &fetchErr) {
			h.logger.Warn(action, slog.Any("error", err))
			httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "a collaborator failed to resolve; retry the request")
			return
		}
		h.logger.Error(action, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
