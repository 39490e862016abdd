package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

// timeoutService bounds every advisory call. A call that outlives the bound
// fails with domain.ErrTimeout instead of suspending its caller forever.
type timeoutService struct {
	next    Service
	timeout time.Duration
}

// WithTimeout wraps svc so that each operation is cancelled after d.
// A non-positive d returns svc unchanged.
func WithTimeout(svc Service, d time.Duration) Service {
	if d <= 0 {
		return svc
	}
	return &timeoutService{next: svc, timeout: d}
}

func call[T any](ctx context.Context, d time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	out, err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		var zero T
		return zero, fmt.Errorf("%w: %s exceeded %s", domain.ErrTimeout, op, d)
	}
	return out, err
}

func (s *timeoutService) NextQuestion(ctx context.Context, turns []domain.Turn, branch domain.Branch, speed domain.Speed) (*domain.QuestionOutcome, error) {
	return call(ctx, s.timeout, "next question", func(ctx context.Context) (*domain.QuestionOutcome, error) {
		return s.next.NextQuestion(ctx, turns, branch, speed)
	})
}

func (s *timeoutService) Advice(ctx context.Context, turns []domain.Turn, branch domain.Branch) (*domain.AdviceResult, error) {
	return call(ctx, s.timeout, "advice", func(ctx context.Context) (*domain.AdviceResult, error) {
		return s.next.Advice(ctx, turns, branch)
	})
}

func (s *timeoutService) SimulationPlan(ctx context.Context, career string) (*domain.SimulationPlan, error) {
	return call(ctx, s.timeout, "simulation plan", func(ctx context.Context) (*domain.SimulationPlan, error) {
		return s.next.SimulationPlan(ctx, career)
	})
}

func (s *timeoutService) SimulationReport(ctx context.Context, career string, answers []domain.UserAnswer) (*domain.SimulationReport, error) {
	return call(ctx, s.timeout, "simulation report", func(ctx context.Context) (*domain.SimulationReport, error) {
		return s.next.SimulationReport(ctx, career, answers)
	})
}

func (s *timeoutService) Assessment(ctx context.Context, career string, level domain.SkillLevel) ([]domain.AssessmentQuestion, error) {
	return call(ctx, s.timeout, "assessment", func(ctx context.Context) ([]domain.AssessmentQuestion, error) {
		return s.next.Assessment(ctx, career, level)
	})
}

func (s *timeoutService) EvaluateAssessment(ctx context.Context, career string, answers []domain.AssessmentAnswer) (*domain.AssessmentResult, error) {
	return call(ctx, s.timeout, "assessment evaluation", func(ctx context.Context) (*domain.AssessmentResult, error) {
		return s.next.EvaluateAssessment(ctx, career, answers)
	})
}

func (s *timeoutService) SideHustles(ctx context.Context, career string, level domain.SkillLevel, skills domain.SkillSet) ([]domain.SideHustle, error) {
	return call(ctx, s.timeout, "side hustles", func(ctx context.Context) ([]domain.SideHustle, error) {
		return s.next.SideHustles(ctx, career, level, skills)
	})
}

func (s *timeoutService) SynthesizeSpeech(ctx context.Context, text string) (*Audio, error) {
	return call(ctx, s.timeout, "speech", func(ctx context.Context) (*Audio, error) {
		return s.next.SynthesizeSpeech(ctx, text)
	})
}
