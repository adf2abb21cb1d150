package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/johnkamauwamunga/energy-erp-sub000/internal/debtors"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/expenses"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/observability"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/readings"
	reconcilehttp "github.com/johnkamauwamunga/energy-erp-sub000/internal/reconcile/http"
	"github.com/johnkamauwamunga/energy-erp-sub000/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	ReadingsHandler  *readings.Handler
	DebtorsHandler   *debtors.Handler
	ExpensesHandler  *expenses.Handler
	ReconcileHandler *reconcilehttp.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if params.ReadingsHandler != nil {
			params.ReadingsHandler.MountRoutes(r)
		}
		if params.DebtorsHandler != nil {
			params.DebtorsHandler.MountRoutes(r)
		}
		if params.ExpensesHandler != nil {
			params.ExpensesHandler.MountRoutes(r)
		}
		if params.ReconcileHandler != nil {
			params.ReconcileHandler.MountRoutes(r)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
