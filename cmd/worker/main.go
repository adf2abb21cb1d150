package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/johnkamauwamunga/energy-erp-sub000/internal/app"
	jobmetrics "github.com/johnkamauwamunga/energy-erp-sub000/internal/jobs"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/platform/db"
	"github.com/johnkamauwamunga/energy-erp-sub000/internal/submission"
	"github.com/johnkamauwamunga/energy-erp-sub000/jobs"
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

	submissionRepo := submission.NewRepository(pool)
	dispatcher := submission.NewDispatcher(logger, submissionRepo, cfg.ERPSubmitURL)
	dispatchJob := jobs.NewSubmissionDispatchJob(dispatcher, logger, jobmetrics.NewMetrics(nil))

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSubmissionDispatch, Handler: dispatchJob.Handle},
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
