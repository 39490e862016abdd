package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

const createReportSubmission = `-- name: CreateReportSubmission :one
INSERT INTO report_submissions (
id, session_id, student_name, parent_email, payload, status)
VALUES ( $1, $2, $3, $4, $5, $6)
RETURNING id, session_id, student_name, parent_email, payload, status, error, created_at, updated_at
`

type CreateReportSubmissionParams struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	StudentName string
	ParentEmail string
	Payload     json.RawMessage
	Status      string
}

func (q *Queries) CreateReportSubmission(ctx context.Context, arg CreateReportSubmissionParams) (ReportSubmission, error) {
	row := q.db.QueryRowContext(ctx, createReportSubmission,
		arg.ID,
		arg.SessionID,
		arg.StudentName,
		arg.ParentEmail,
		arg.Payload,
		arg.Status,
	)
	var i ReportSubmission
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.StudentName,
		&i.ParentEmail,
		&i.Payload,
		&i.Status,
		&i.Error,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getReportSubmission = `-- name: GetReportSubmission :one
SELECT id, session_id, student_name, parent_email, payload, status, error, created_at, updated_at FROM report_submissions WHERE id=$1
`

func (q *Queries) GetReportSubmission(ctx context.Context, id uuid.UUID) (ReportSubmission, error) {
	row := q.db.QueryRowContext(ctx, getReportSubmission, id)
	var i ReportSubmission
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.StudentName,
		&i.ParentEmail,
		&i.Payload,
		&i.Status,
		&i.Error,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateReportSubmissionStatus = `-- name: UpdateReportSubmissionStatus :exec
UPDATE report_submissions
SET status=$1, error=$2, updated_at=CURRENT_TIMESTAMP
WHERE id=$3
`

type UpdateReportSubmissionStatusParams struct {
	Status string
	Error  sql.NullString
	ID     uuid.UUID
}

func (q *Queries) UpdateReportSubmissionStatus(ctx context.Context, arg UpdateReportSubmissionStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateReportSubmissionStatus, arg.Status, arg.Error, arg.ID)
	return err
}
