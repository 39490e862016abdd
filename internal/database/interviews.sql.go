package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const createInterviewSession = `-- name: CreateInterviewSession :one
INSERT INTO interview_sessions (
session_id, branch, turns)
VALUES ( $1, $2, $3)
RETURNING id, session_id, branch, turns, created_at
`

type CreateInterviewSessionParams struct {
	SessionID uuid.UUID
	Branch    string
	Turns     json.RawMessage
}

func (q *Queries) CreateInterviewSession(ctx context.Context, arg CreateInterviewSessionParams) (InterviewSession, error) {
	row := q.db.QueryRowContext(ctx, createInterviewSession, arg.SessionID, arg.Branch, arg.Turns)
	var i InterviewSession
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.Branch,
		&i.Turns,
		&i.CreatedAt,
	)
	return i, err
}

const createAdviceResult = `-- name: CreateAdviceResult :exec
INSERT INTO advice_results (
interview_id, result)
VALUES ( $1, $2)
`

type CreateAdviceResultParams struct {
	InterviewID uuid.UUID
	Result      json.RawMessage
}

func (q *Queries) CreateAdviceResult(ctx context.Context, arg CreateAdviceResultParams) error {
	_, err := q.db.ExecContext(ctx, createAdviceResult, arg.InterviewID, arg.Result)
	return err
}

const getInterviewSessionsBySession = `-- name: GetInterviewSessionsBySession :many
SELECT id, session_id, branch, turns, created_at FROM interview_sessions WHERE session_id=$1
ORDER BY created_at
`

func (q *Queries) GetInterviewSessionsBySession(ctx context.Context, sessionID uuid.UUID) ([]InterviewSession, error) {
	rows, err := q.db.QueryContext(ctx, getInterviewSessionsBySession, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InterviewSession
	for rows.Next() {
		var i InterviewSession
		if err := rows.Scan(
			&i.ID,
			&i.SessionID,
			&i.Branch,
			&i.Turns,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
