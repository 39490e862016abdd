// Package advisor is the client side of the generative advisory service:
// prompt and schema assembly, lenient decoding of replies, speech synthesis.
package advisor

import (
	"context"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

// Audio is a synthesized speech payload.
type Audio struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mimeType"`
}

// Service is the set of advisory operations the controllers consume. Every
// operation except SynthesizeSpeech fails by returning an error that wraps one
// of domain.ErrMalformedResponse, domain.ErrRequestFailed or domain.ErrTimeout.
type Service interface {
	NextQuestion(ctx context.Context, turns []domain.Turn, branch domain.Branch, speed domain.Speed) (*domain.QuestionOutcome, error)
	Advice(ctx context.Context, turns []domain.Turn, branch domain.Branch) (*domain.AdviceResult, error)
	SimulationPlan(ctx context.Context, career string) (*domain.SimulationPlan, error)
	SimulationReport(ctx context.Context, career string, answers []domain.UserAnswer) (*domain.SimulationReport, error)

	Assessment(ctx context.Context, career string, level domain.SkillLevel) ([]domain.AssessmentQuestion, error)
	EvaluateAssessment(ctx context.Context, career string, answers []domain.AssessmentAnswer) (*domain.AssessmentResult, error)
	SideHustles(ctx context.Context, career string, level domain.SkillLevel, skills domain.SkillSet) ([]domain.SideHustle, error)

	// SynthesizeSpeech is best effort: a nil Audio with a nil error means
	// the service produced no audio for the text.
	SynthesizeSpeech(ctx context.Context, text string) (*Audio, error)
}
