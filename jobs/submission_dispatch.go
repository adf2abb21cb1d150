package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/johnkamauwamunga/energy-erp-sub000/internal/jobs"
)

type submissionDispatcher interface {
	Dispatch(ctx context.Context, submissionID int64) error
}

// SubmissionDispatchJob delivers stored shift submissions to the upstream ERP.
type SubmissionDispatchJob struct {
	Dispatcher submissionDispatcher
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
}

// NewSubmissionDispatchJob initialises the dispatch handler.
func NewSubmissionDispatchJob(dispatcher submissionDispatcher, logger *slog.Logger, metrics *jobmetrics.Metrics) *SubmissionDispatchJob {
	return &SubmissionDispatchJob{Dispatcher: dispatcher, Logger: logger, Metrics: metrics}
}

// Handle executes TaskSubmissionDispatch tasks.
func (j *SubmissionDispatchJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dispatcher == nil {
		return errors.New("submission dispatch: handler not configured")
	}
	var payload SubmissionDispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.SubmissionID == 0 {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskSubmissionDispatch)
	start := time.Now()
	err := j.Dispatcher.Dispatch(ctx, payload.SubmissionID)
	err = tracker.End(err)
	if err != nil {
		j.Logger.Error("submission dispatch failed",
			slog.Int64("submission_id", payload.SubmissionID),
			slog.Any("error", err))
		return err
	}
	j.Logger.Info("submission dispatch completed",
		slog.Int64("submission_id", payload.SubmissionID),
		slog.Duration("duration", time.Since(start)))
	return nil
}
