package expenses

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/johnkamauwamunga/energy-erp-sub000/internal/platform/httpx"
)

type expenseService interface {
	ListByShiftAndIsland(ctx context.Context, shiftID, islandID int64) ([]Expense, error)
	Create(ctx context.Context, in CreateExpenseInput) (Expense, error)
}

// Handler wires expense endpoints under a shift's island.
type Handler struct {
	logger   *slog.Logger
	service  expenseService
	validate *validator.Validate
}

// NewHandler constructs an expenses HTTP handler.
func NewHandler(logger *slog.Logger, service expenseService) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers expense routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/shifts/{shiftID}/islands/{islandID}/expenses", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
	})
}

type createRequest struct {
	Category   string  `json:"category" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	RecordedBy int64   `json:"recordedBy" validate:"required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	shiftID, islandID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}
	entries, err := h.service.ListByShiftAndIsland(r.Context(), shiftID, islandID)
	if err != nil {
		h.logger.Error("list expenses", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if entries == nil {
		entries = []Expense{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	shiftID, islandID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	expense, err := h.service.Create(r.Context(), CreateExpenseInput{
		ShiftID:    shiftID,
		IslandID:   islandID,
		Category:   req.Category,
		Amount:     req.Amount,
		RecordedBy: req.RecordedBy,
	})
	if err != nil {
		if errors.Is(err, ErrNonPositiveAmount) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("create expense", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, expense)
}

func (h *Handler) pathIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	shiftID, err := strconv.ParseInt(chi.URLParam(r, "shiftID"), 10, 64)
	if err != nil || shiftID == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid shift id")
		return 0, 0, false
	}
	islandID, err := strconv.ParseInt(chi.URLParam(r, "islandID"), 10, 64)
	if err != nil || islandID == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid island id")
		return 0, 0, false
	}
	return shiftID, islandID, true
}
