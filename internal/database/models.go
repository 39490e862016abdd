package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type InterviewSession struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Branch    string
	Turns     json.RawMessage
	CreatedAt time.Time
}

type AdviceResult struct {
	ID          uuid.UUID
	InterviewID uuid.UUID
	Result      json.RawMessage
	CreatedAt   time.Time
}

type SimulationReport struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Career    string
	Answers   json.RawMessage
	Report    json.RawMessage
	CreatedAt time.Time
}

type ReportSubmission struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	StudentName string
	ParentEmail string
	Payload     json.RawMessage
	Status      string
	Error       sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
