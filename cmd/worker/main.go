package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/lanave/cuadre/internal/app"
	"github.com/lanave/cuadre/internal/cuadre"
	"github.com/lanave/cuadre/internal/observability"
	"github.com/lanave/cuadre/internal/platform/db"
	"github.com/lanave/cuadre/internal/scrape"
	"github.com/lanave/cuadre/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	metrics := observability.NewMetrics()
	store := jobs.NewSyncStore(pool)
	cache := cuadre.NewCache(redisClient, cfg.CacheTTL)

	console := scrape.NewMaxPlayGo(logger, scrape.MaxPlayGoConfig{
		BaseURL:  cfg.MaxPlayGoURL,
		Username: cfg.MaxPlayGoUsername,
		Password: cfg.MaxPlayGoPassword,
		Group:    cfg.MaxPlayGoGroup,
		Timeout:  cfg.ScrapeTimeout,
	})
	salesAPI := scrape.NewSalesAPI(logger, scrape.SalesAPIConfig{
		BaseURL:  cfg.SalesReportURL,
		Username: cfg.SalesReportUsername,
		Password: cfg.SalesReportPassword,
		GroupIDs: cfg.SalesReportGroups,
	})

	maxPlayGoJob := &jobs.MaxPlayGoSyncJob{
		Store:   store,
		Scraper: console,
		Cache:   cache,
		Logger:  logger,
		Metrics: metrics,
	}
	salesReportJob := &jobs.SalesReportSyncJob{
		Store:   store,
		Fetcher: salesAPI,
		Cache:   cache,
		Logger:  logger,
		Metrics: metrics,
	}

	maxPlayGoTask, err := jobs.NewMaxPlayGoSyncTask(jobs.SyncPayload{})
	if err != nil {
		logger.Error("build maxplaygo task", slog.Any("error", err))
		os.Exit(1)
	}
	salesReportTask, err := jobs.NewSalesReportSyncTask(jobs.SyncPayload{})
	if err != nil {
		logger.Error("build sales report task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskMaxPlayGoSync, Handler: maxPlayGoJob.Handle},
			{Type: jobs.TaskSalesReportSync, Handler: salesReportJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.SyncCronSpec, Task: maxPlayGoTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
			{Spec: cfg.SyncCronSpec, Task: salesReportTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
