package shell

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/muhammadolammi/careeradvisor/internal/database"
	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

// Recorder persists finished interviews and simulations.
type Recorder interface {
	InterviewCompleted(ctx context.Context, sessionID uuid.UUID, branch domain.Branch, turns []domain.Turn, advice *domain.AdviceResult) error
	SimulationCompleted(ctx context.Context, sessionID uuid.UUID, career string, answers []domain.UserAnswer, report *domain.SimulationReport) error
}

type NopRecorder struct{}

func (NopRecorder) InterviewCompleted(context.Context, uuid.UUID, domain.Branch, []domain.Turn, *domain.AdviceResult) error {
	return nil
}

func (NopRecorder) SimulationCompleted(context.Context, uuid.UUID, string, []domain.UserAnswer, *domain.SimulationReport) error {
	return nil
}

type DBRecorder struct {
	db *sql.DB
	q  *database.Queries
}

func NewDBRecorder(db *sql.DB) *DBRecorder {
	return &DBRecorder{db: db, q: database.New(db)}
}

// InterviewCompleted stores the transcript and its advice in one transaction.
func (r *DBRecorder) InterviewCompleted(ctx context.Context, sessionID uuid.UUID, branch domain.Branch, turns []domain.Turn, advice *domain.AdviceResult) error {
	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	adviceJSON, err := json.Marshal(advice)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	q := r.q.WithTx(tx)

	interview, err := q.CreateInterviewSession(ctx, database.CreateInterviewSessionParams{
		SessionID: sessionID,
		Branch:    string(branch),
		Turns:     turnsJSON,
	})
	if err != nil {
		return fmt.Errorf("error saving interview. err: %w", err)
	}
	err = q.CreateAdviceResult(ctx, database.CreateAdviceResultParams{
		InterviewID: interview.ID,
		Result:      adviceJSON,
	})
	if err != nil {
		return fmt.Errorf("error saving advice. err: %w", err)
	}
	return tx.Commit()
}

func (r *DBRecorder) SimulationCompleted(ctx context.Context, sessionID uuid.UUID, career string, answers []domain.UserAnswer, report *domain.SimulationReport) error {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return err
	}
	err = r.q.CreateSimulationReport(ctx, database.CreateSimulationReportParams{
		SessionID: sessionID,
		Career:    career,
		Answers:   answersJSON,
		Report:    reportJSON,
	})
	if err != nil {
		return fmt.Errorf("error saving simulation report. err: %w", err)
	}
	return nil
}
