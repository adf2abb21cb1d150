package readings

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/johnkamauwamunga/energy-erp-sub000/internal/platform/httpx"
)

type readingsService interface {
	ShiftReadings(ctx context.Context, shiftID int64) (ShiftReadings, error)
}

// Handler exposes the read-only shift readings endpoint.
type Handler struct {
	logger  *slog.Logger
	service readingsService
}

// NewHandler constructs a readings HTTP handler.
func NewHandler(logger *slog.Logger, service readingsService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers readings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/shifts/{shiftID}/readings", h.showReadings)
}

func (h *Handler) showReadings(w http.ResponseWriter, r *http.Request) {
	shiftID, err := strconv.ParseInt(chi.URLParam(r, "shiftID"), 10, 64)
	if err != nil || shiftID == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid shift id")
		return
	}
	data, err := h.service.ShiftReadings(r.Context(), shiftID)
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("load shift readings", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, data)
}
