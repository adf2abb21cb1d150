package submission

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type payloadSource interface {
	Payload(ctx context.Context, submissionID int64) ([]byte, error)
	MarkDispatched(ctx context.Context, submissionID int64) error
}

// Dispatcher delivers stored submission payloads to the upstream ERP over
// HTTP. Transient failures surface as errors so the queue retries them.
type Dispatcher struct {
	logger *slog.Logger
	source payloadSource
	client *http.Client
	url    string
}

// NewDispatcher constructs a Dispatcher posting to the given endpoint.
func NewDispatcher(logger *slog.Logger, source payloadSource, url string) *Dispatcher {
	return &Dispatcher{
		logger: logger,
		source: source,
		client: &http.Client{Timeout: 30 * time.Second},
		url:    url,
	}
}

// Dispatch posts the submission body upstream and marks it delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, submissionID int64) error {
	body, err := d.source.Payload(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("submission: load payload %d: %w", submissionID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("submission: dispatch %d: %w", submissionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("submission: dispatch %d: upstream returned %d", submissionID, resp.StatusCode)
	}

	if err := d.source.MarkDispatched(ctx, submissionID); err != nil {
		return err
	}
	d.logger.Info("submission dispatched", slog.Int64("submission_id", submissionID))
	return nil
}
