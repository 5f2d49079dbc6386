package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/lanave/cuadre/internal/app"
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
	"github.com/lanave/cuadre/internal/platform/db"
	"github.com/lanave/cuadre/internal/profit"
	"github.com/lanave/cuadre/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	cuadreService := cuadre.NewService(logger, cuadre.NewRepository(dbpool))
	cuadreCache := cuadre.NewCache(redisClient, cfg.CacheTTL)

	agenciesService := agencies.NewService(agencies.NewRepository(dbpool))
	clientsService := clients.NewService(clients.NewRepository(dbpool))
	groupsService := groups.NewService(groups.NewRepository(dbpool))
	systemsService := systems.NewService(systems.NewRepository(dbpool))
	commissionsService := commissions.NewService(commissions.NewRepository(dbpool))
	employeesService := employees.NewService(employees.NewRepository(dbpool))
	expensesService := expenses.NewService(expenses.NewRepository(dbpool), cuadreCache)
	bankExpensesService := bankexpenses.NewService(bankexpenses.NewRepository(dbpool))
	loansService := loans.NewService(loans.NewRepository(dbpool), cuadreCache)
	payrollService := payroll.NewService(payroll.NewRepository(dbpool))
	profitService := profit.NewService(logger, cuadreService, commissionsService, bankExpensesService, groupsService, profit.Options{})

	metrics := observability.NewMetrics()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobsClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:  logger,
		Config:  cfg,
		Pool:    dbpool,
		Metrics: metrics,

		AgenciesHandler:     agencies.NewHandler(logger, agenciesService),
		ClientsHandler:      clients.NewHandler(logger, clientsService),
		GroupsHandler:       groups.NewHandler(logger, groupsService),
		SystemsHandler:      systems.NewHandler(logger, systemsService),
		CommissionsHandler:  commissions.NewHandler(logger, commissionsService),
		EmployeesHandler:    employees.NewHandler(logger, employeesService),
		ExpensesHandler:     expenses.NewHandler(logger, expensesService),
		BankExpensesHandler: bankexpenses.NewHandler(logger, bankExpensesService),
		LoansHandler:        loans.NewHandler(logger, loansService),
		PayrollHandler:      payroll.NewHandler(logger, payrollService),
		CuadreHandler:       cuadre.NewHandler(logger, cuadreService, cuadreCache),
		ReportsHandler:      cuadrereports.NewHandler(logger, cuadreService, commissionsService),
		ProfitHandler:       profit.NewHandler(logger, profitService),

		JobsHandler: jobs.NewHandler(inspector, logger),
		JobsClient:  jobsClient,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
