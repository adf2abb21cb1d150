package debtors

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

type debtorService interface {
	Get(ctx context.Context, id int64) (Debtor, error)
	List(ctx context.Context, stationID int64) ([]Debtor, error)
	Search(ctx context.Context, stationID int64, query string) ([]Debtor, error)
	CodeExists(ctx context.Context, stationID int64, code string) (bool, error)
	Create(ctx context.Context, in CreateDebtorInput) (Debtor, error)
	Update(ctx context.Context, id int64, in UpdateDebtorInput) (Debtor, error)
}

// Handler wires debtor lookup and management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  debtorService
	validate *validator.Validate
}

// NewHandler constructs a debtors HTTP handler.
func NewHandler(logger *slog.Logger, service debtorService) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers debtor routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/stations/{stationID}/debtors", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/search", h.search)
		r.Get("/code-exists", h.codeExists)
	})
	r.Get("/debtors/{id}", h.show)
	r.Put("/debtors/{id}", h.update)
}

type createRequest struct {
	Name          string `json:"name" validate:"required"`
	Code          string `json:"code" validate:"required,min=2"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contactPerson"`
}

type updateRequest struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contactPerson"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	stationID, ok := h.stationID(w, r)
	if !ok {
		return
	}
	debtors, err := h.service.List(r.Context(), stationID)
	if err != nil {
		h.respondError(w, "list debtors", err)
		return
	}
	httpx.JSON(w, http.StatusOK, debtors)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	stationID, ok := h.stationID(w, r)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")
	debtors, err := h.service.Search(r.Context(), stationID, query)
	if err != nil {
		if errors.Is(err, ErrQueryTooShort) {
			httpx.JSON(w, http.StatusOK, []Debtor{})
			return
		}
		if errors.Is(err, context.Canceled) {
			// Superseded by a newer keystroke; nothing to report.
			return
		}
		h.respondError(w, "search debtors", err)
		return
	}
	httpx.JSON(w, http.StatusOK, debtors)
}

func (h *Handler) codeExists(w http.ResponseWriter, r *http.Request) {
	stationID, ok := h.stationID(w, r)
	if !ok {
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "code is required")
		return
	}
	exists, err := h.service.CodeExists(r.Context(), stationID, code)
	if err != nil {
		h.respondError(w, "check debtor code", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid debtor id")
		return
	}
	debtor, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get debtor", err)
		return
	}
	httpx.JSON(w, http.StatusOK, debtor)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	stationID, ok := h.stationID(w, r)
	if !ok {
		return
	}
	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}
	debtor, err := h.service.Create(r.Context(), CreateDebtorInput{
		StationID:     stationID,
		Name:          req.Name,
		Code:          req.Code,
		Phone:         req.Phone,
		ContactPerson: req.ContactPerson,
	})
	if err != nil {
		h.respondError(w, "create debtor", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, debtor)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid debtor id")
		return
	}
	var req updateRequest
	if !h.decode(w, r, &req) {
		return
	}
	debtor, err := h.service.Update(r.Context(), id, UpdateDebtorInput{
		Name:          req.Name,
		Phone:         req.Phone,
		ContactPerson: req.ContactPerson,
	})
	if err != nil {
		h.respondError(w, "update debtor", err)
		return
	}
	httpx.JSON(w, http.StatusOK, debtor)
}

func (h *Handler) stationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "stationID"), 10, 64)
	if err != nil || id == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid station id")
		return 0, false
	}
	return id, true
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

func (h *Handler) respondError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrCodeTaken):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error(action, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
