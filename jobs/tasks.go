package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSubmissionDispatch delivers a stored shift submission upstream.
	TaskSubmissionDispatch = "submission:dispatch"
)

// SubmissionDispatchPayload identifies the submission to deliver.
type SubmissionDispatchPayload struct {
	SubmissionID int64 `json:"submissionId"`
}

// NewSubmissionDispatchTask constructs an Asynq task.
func NewSubmissionDispatchTask(payload SubmissionDispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSubmissionDispatch, data), nil
}
