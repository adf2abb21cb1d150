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

	"github.com/johnkamauwamunga/energy-erp-sub000/internal/app"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/debtors"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/expenses"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/integration"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/observability"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/platform/cache"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/platform/db"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/readings"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/reconcile"
	reconcilehttp "github.com/johnkamauwamunga/energy-erp-sub000/internal/reconcile/http"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/submission"
	"github.com/johnkamauwamunga/energy-erp-sub000/jobs"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	readingsRepo := readings.NewRepository(dbpool)
	readingsService := readings.NewService(readingsRepo)
	readingsHandler := readings.NewHandler(logger, readingsService)

	debtorCache := debtors.NewCache(redisClient, cfg.DebtorCacheTTL)
	debtorRepo := debtors.NewRepository(dbpool)
	debtorService := debtors.NewService(debtorRepo, debtorCache, debtors.DefaultQueryConfig())
	debtorHandler := debtors.NewHandler(logger, debtorService)

	expenseRepo := expenses.NewRepository(dbpool)
	expenseService := expenses.NewService(expenseRepo)
	expenseHandler := expenses.NewHandler(logger, expenseService)

	queueClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	submissionRepo := submission.NewRepository(dbpool)
	submissionService := submission.NewService(logger, submissionRepo, queueClient)

	reconcileService := reconcile.NewService(
		reconcile.NewSessionStore(),
		integration.NewReadingsHook(readingsService),
		integration.NewDebtorHook(debtorService),
		expenseService,
		submissionService,
		metrics,
		logger,
	)
	reconcileHandler := reconcilehttp.NewHandler(logger, reconcileService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		ReadingsHandler:  readingsHandler,
		DebtorsHandler:   debtorHandler,
		ExpensesHandler:  expenseHandler,
		ReconcileHandler: reconcileHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
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
