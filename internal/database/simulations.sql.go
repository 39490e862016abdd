package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const createSimulationReport = `-- name: CreateSimulationReport :exec
INSERT INTO simulation_reports (
session_id, career, answers, report)
VALUES ( $1, $2, $3, $4)
`

type CreateSimulationReportParams struct {
	SessionID uuid.UUID
	Career    string
	Answers   json.RawMessage
	Report    json.RawMessage
}

func (q *Queries) CreateSimulationReport(ctx context.Context, arg CreateSimulationReportParams) error {
	_, err := q.db.ExecContext(ctx, createSimulationReport,
		arg.SessionID,
		arg.Career,
		arg.Answers,
		arg.Report,
	)
	return err
}
