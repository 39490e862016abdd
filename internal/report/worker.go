package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/muhammadolammi/careeradvisor/internal/events"
	"github.com/muhammadolammi/careeradvisor/internal/logger"
)

// Worker delivers queued reports to the webhook. Each job is posted once.
type Worker struct {
	store      Store
	pub        events.Publisher
	client     *http.Client
	webhookURL string
	log        *logger.Logger
}

func NewWorker(store Store, pub events.Publisher, webhookURL string, log *logger.Logger) *Worker {
	return &Worker{
		store:      store,
		pub:        pub,
		client:     &http.Client{Timeout: 30 * time.Second},
		webhookURL: webhookURL,
		log:        log,
	}
}

type statusUpdate struct {
	SubmissionID string `json:"submissionId"`
	Status       Status `json:"status"`
	Error        string `json:"error,omitempty"`
}

// Process posts the job's payload and records the outcome.
func (w *Worker) Process(ctx context.Context, job Job) error {
	status, errMsg := StatusSuccess, ""
	if err := w.post(ctx, job.Payload); err != nil {
		w.log.Warn("report delivery failed", "submission", job.SubmissionID, "error", err)
		status, errMsg = StatusError, err.Error()
	}

	if err := w.store.SetStatus(ctx, job.SubmissionID, status, errMsg); err != nil {
		return fmt.Errorf("failed to update submission %s: %w", job.SubmissionID, err)
	}

	update := statusUpdate{SubmissionID: job.SubmissionID.String(), Status: status, Error: errMsg}
	if err := w.pub.Publish(ctx, events.New(job.SessionID.String(), events.TypeReport, update)); err != nil {
		w.log.Warn("failed to publish report update", "submission", job.SubmissionID, "error", err)
	}
	return nil
}

func (w *Worker) post(ctx context.Context, body []byte) error {
	if w.webhookURL == "" {
		return fmt.Errorf("report webhook is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
