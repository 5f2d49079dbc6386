package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lanave/cuadre/internal/bankexpenses"
	"github.com/lanave/cuadre/internal/cuadre"
	cuadrereports "github.com/lanave/cuadre/internal/cuadre/reports"
	"github.com/lanave/cuadre/internal/expenses"
	"github.com/lanave/cuadre/internal/loans"
	"github.com/lanave/cuadre/internal/masterdata/agencies"
	"github.com/lanave/cuadre/internal/masterdata/clients"
	"github.com/lanave/cuadre/internal/masterdata/commissions"
	"github.com/lanave/cuadre/internal/masterdata/employees"
	"github.com/lanave/cuadre/internal/masterdata/groups"
	"github.com/lanave/cuadre/internal/masterdata/systems"
	"github.com/lanave/cuadre/internal/observability"
	"github.com/lanave/cuadre/internal/payroll"
	"github.com/lanave/cuadre/internal/platform/httpx"
	"github.com/lanave/cuadre/internal/profit"
	"github.com/lanave/cuadre/internal/shared"
	"github.com/lanave/cuadre/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Pool    *pgxpool.Pool
	Metrics *observability.Metrics

	AgenciesHandler     *agencies.Handler
	ClientsHandler      *clients.Handler
	GroupsHandler       *groups.Handler
	SystemsHandler      *systems.Handler
	CommissionsHandler  *commissions.Handler
	EmployeesHandler    *employees.Handler
	ExpensesHandler     *expenses.Handler
	BankExpensesHandler *bankexpenses.Handler
	LoansHandler        *loans.Handler
	PayrollHandler      *payroll.Handler
	CuadreHandler       *cuadre.Handler
	ReportsHandler      *cuadrereports.Handler
	ProfitHandler       *profit.Handler

	JobsHandler *jobs.Handler
	JobsClient  *jobs.Client
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

	r.Route("/api", func(r chi.Router) {
		r.Route("/agencies", params.AgenciesHandler.Routes)
		r.Route("/clients", params.ClientsHandler.Routes)
		r.Route("/groups", params.GroupsHandler.Routes)
		r.Route("/systems", params.SystemsHandler.Routes)
		r.Route("/commissions", params.CommissionsHandler.Routes)
		r.Route("/employees", params.EmployeesHandler.Routes)
		r.Route("/expenses", params.ExpensesHandler.Routes)
		r.Route("/bank-expenses", params.BankExpensesHandler.Routes)
		r.Route("/loans", params.LoansHandler.Routes)
		r.Route("/payroll", params.PayrollHandler.Routes)
		r.Route("/cuadre", func(r chi.Router) {
			params.CuadreHandler.Routes(r)
			if params.ReportsHandler != nil {
				params.ReportsHandler.Routes(r)
			}
		})
		r.Route("/profit", params.ProfitHandler.Routes)

		r.Get("/weeks/current", currentWeek(params.Logger, params.Pool))

		if params.JobsClient != nil {
			r.Route("/sync", syncRoutes(params.Logger, params.JobsClient))
		}
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

func currentWeek(logger *slog.Logger, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, err := shared.CurrentWeek(r.Context(), pool)
		if err != nil {
			logger.Error("current week lookup", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "could not resolve the current week")
			return
		}
		httpx.JSON(w, http.StatusOK, week)
	}
}

// syncRoutes exposes manual triggers for the vendor sync jobs. The
// nightly cron covers the normal case; these exist for backfills.
func syncRoutes(logger *slog.Logger, client *jobs.Client) func(chi.Router) {
	enqueue := func(name string, fn func(r *http.Request, payload jobs.SyncPayload) error) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var payload jobs.SyncPayload
			if r.ContentLength > 0 {
				if err := httpx.DecodeJSON(r, &payload); err != nil {
					httpx.RespondError(w, err)
					return
				}
			}
			if err := fn(r, payload); err != nil {
				logger.Error("enqueue sync task", slog.String("task", name), slog.Any("error", err))
				httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "could not enqueue the sync task")
				return
			}
			httpx.JSON(w, http.StatusAccepted, map[string]string{"task": name, "status": "queued"})
		}
	}
	return func(r chi.Router) {
		r.Post("/maxplaygo", enqueue(jobs.TaskMaxPlayGoSync, func(r *http.Request, payload jobs.SyncPayload) error {
			_, err := client.EnqueueMaxPlayGoSync(r.Context(), payload)
			return err
		}))
		r.Post("/salesreport", enqueue(jobs.TaskSalesReportSync, func(r *http.Request, payload jobs.SyncPayload) error {
			_, err := client.EnqueueSalesReportSync(r.Context(), payload)
			return err
		}))
	}
}
