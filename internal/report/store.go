package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadolammi/careeradvisor/internal/database"
	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

type Status string

const (
	StatusSending Status = "sending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type Submission struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"sessionId"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store interface {
	Create(ctx context.Context, sub Submission, contact Contact, payload json.RawMessage) (Submission, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status, errMsg string) error
	Get(ctx context.Context, id uuid.UUID) (Submission, error)
}

type DBStore struct {
	q *database.Queries
}

func NewDBStore(q *database.Queries) *DBStore {
	return &DBStore{q: q}
}

func (s *DBStore) Create(ctx context.Context, sub Submission, contact Contact, payload json.RawMessage) (Submission, error) {
	row, err := s.q.CreateReportSubmission(ctx, database.CreateReportSubmissionParams{
		ID:          sub.ID,
		SessionID:   sub.SessionID,
		StudentName: contact.StudentName,
		ParentEmail: contact.ParentEmail,
		Payload:     payload,
		Status:      string(sub.Status),
	})
	if err != nil {
		return Submission{}, err
	}
	return fromRow(row), nil
}

func (s *DBStore) SetStatus(ctx context.Context, id uuid.UUID, status Status, errMsg string) error {
	return s.q.UpdateReportSubmissionStatus(ctx, database.UpdateReportSubmissionStatusParams{
		Status: string(status),
		Error:  sql.NullString{String: errMsg, Valid: errMsg != ""},
		ID:     id,
	})
}

func (s *DBStore) Get(ctx context.Context, id uuid.UUID) (Submission, error) {
	row, err := s.q.GetReportSubmission(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, domain.ErrNotFound
	}
	if err != nil {
		return Submission{}, err
	}
	return fromRow(row), nil
}

func fromRow(row database.ReportSubmission) Submission {
	return Submission{
		ID:        row.ID,
		SessionID: row.SessionID,
		Status:    Status(row.Status),
		Error:     row.Error.String,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
