package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/logger"
)

// Dispatcher records a submission as sending and queues its delivery.
type Dispatcher struct {
	store Store
	queue Queue
	log   *logger.Logger
}

func NewDispatcher(store Store, queue Queue, log *logger.Logger) *Dispatcher {
	return &Dispatcher{store: store, queue: queue, log: log}
}

func (d *Dispatcher) Submit(ctx context.Context, sessionID uuid.UUID, contact Contact, advice *domain.AdviceResult) (Submission, error) {
	if advice == nil {
		return Submission{}, fmt.Errorf("%w: no advice to report", domain.ErrInvalidState)
	}
	if err := contact.Validate(); err != nil {
		return Submission{}, err
	}

	payload := BuildPayload(contact, advice)
	body, err := json.Marshal(payload)
	if err != nil {
		return Submission{}, err
	}

	sub, err := d.store.Create(ctx, Submission{
		ID:        uuid.New(),
		SessionID: sessionID,
		Status:    StatusSending,
	}, Contact{StudentName: payload.StudentName, ParentEmail: payload.ParentEmail}, body)
	if err != nil {
		return Submission{}, fmt.Errorf("failed to record submission: %w", err)
	}

	err = d.queue.Enqueue(ctx, Job{SubmissionID: sub.ID, SessionID: sessionID, Payload: body})
	if err != nil {
		d.log.Error("failed to queue report", "submission", sub.ID, "error", err)
		if serr := d.store.SetStatus(ctx, sub.ID, StatusError, err.Error()); serr != nil {
			d.log.Error("failed to update submission status", "submission", sub.ID, "error", serr)
		}
		return Submission{}, fmt.Errorf("failed to queue report: %w", err)
	}
	return sub, nil
}

func (d *Dispatcher) Status(ctx context.Context, id uuid.UUID) (Submission, error) {
	return d.store.Get(ctx, id)
}
