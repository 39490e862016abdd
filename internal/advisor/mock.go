package advisor

import (
	"context"
	"fmt"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

// MockClient is a canned advisory service for local runs without an API key.
type MockClient struct {
	// Questions is the number of questions asked before the interview concludes.
	Questions int
}

func NewMockClient() *MockClient {
	return &MockClient{Questions: 3}
}

var _ Service = (*MockClient)(nil)

func (m *MockClient) NextQuestion(ctx context.Context, turns []domain.Turn, branch domain.Branch, speed domain.Speed) (*domain.QuestionOutcome, error) {
	answered := domain.CountRespondent(turns) - 1
	if answered >= m.Questions {
		return &domain.QuestionOutcome{Done: true}, nil
	}
	if answered%2 == 0 {
		return &domain.QuestionOutcome{
			Question: fmt.Sprintf("[MOCK] Question %d (%s): which activity do you enjoy most?", answered+1, branch),
			Options:  []string{"Building things", "Solving puzzles", "Helping people"},
		}, nil
	}
	return &domain.QuestionOutcome{
		Question: fmt.Sprintf("[MOCK] Question %d: describe a project you are proud of.", answered+1),
		Options:  []string{},
	}, nil
}

func (m *MockClient) Advice(ctx context.Context, turns []domain.Turn, branch domain.Branch) (*domain.AdviceResult, error) {
	match := 87.0
	out := &domain.AdviceResult{
		RecommendedCareers: []domain.Career{
			{
				Career:       "Software Engineer",
				Reason:       "[MOCK] You enjoy solving puzzles and building things.",
				MatchRate:    &match,
				Universities: []domain.Institution{{Name: "Mock University", Region: "North", AdmissionScore: "27.5"}},
				MindMap: &domain.MindMap{
					Center:   "Software Engineer",
					Branches: []domain.MindMapBranch{{Title: "Foundation", Items: []string{"Mathematics", "Programming"}}},
				},
			},
			{
				Career:       "Data Analyst",
				Reason:       "[MOCK] You like finding patterns.",
				Universities: []domain.Institution{},
			},
		},
		HollandAnalysis: &domain.HollandAnalysis{
			Scores:      domain.HollandScores{R: 6, I: 8, A: 4, S: 5, E: 3, C: 6},
			PrimaryCode: "IRC",
			Description: "[MOCK] Investigative first.",
		},
		Skills:          domain.SkillSet{HardSkills: []string{"Programming"}, SoftSkills: []string{"Teamwork"}},
		FinalMotivation: "[MOCK] Keep going.",
	}
	return out, nil
}

func (m *MockClient) SimulationPlan(ctx context.Context, career string) (*domain.SimulationPlan, error) {
	return &domain.SimulationPlan{
		Career:       career,
		Introduction: fmt.Sprintf("[MOCK] A day as a %s.", career),
		Tasks: []domain.Task{
			{Description: "A deadline moves up by a week. What do you do first?", Kind: domain.TaskMultipleChoice, Options: []string{"Replan", "Work overtime", "Ask for help"}},
			{Description: "Explain your plan to the team.", Kind: domain.TaskTextInput},
		},
	}, nil
}

func (m *MockClient) SimulationReport(ctx context.Context, career string, answers []domain.UserAnswer) (*domain.SimulationReport, error) {
	return &domain.SimulationReport{
		Strengths:              fmt.Sprintf("[MOCK] %d thoughtful answers.", len(answers)),
		Improvements:           "[MOCK] Add more detail.",
		CompetencySummary:      domain.CompetencySummary{CriticalThinking: 7, ProfessionalSkills: 6, Communication: 8, Adaptability: 7},
		DevelopmentSuggestions: []string{"Practice estimation"},
		RefinedRecommendations: []string{"Product Manager"},
	}, nil
}

func (m *MockClient) Assessment(ctx context.Context, career string, level domain.SkillLevel) ([]domain.AssessmentQuestion, error) {
	return []domain.AssessmentQuestion{
		{ID: 1, Question: fmt.Sprintf("[MOCK] A %s question for %s.", level, career), Options: []string{"A", "B", "C", "D"}},
	}, nil
}

func (m *MockClient) EvaluateAssessment(ctx context.Context, career string, answers []domain.AssessmentAnswer) (*domain.AssessmentResult, error) {
	return &domain.AssessmentResult{Level: domain.LevelIntermediate, LevelLabel: "Intermediate", Score: 70, Feedback: "[MOCK] Solid basics."}, nil
}

func (m *MockClient) SideHustles(ctx context.Context, career string, level domain.SkillLevel, skills domain.SkillSet) ([]domain.SideHustle, error) {
	return []domain.SideHustle{
		{Title: "[MOCK] Tutoring", Type: "Freelance", ActionPlan: "Find two students.", EstimatedIncome: "low", Difficulty: "easy", Reason: "Uses what you know."},
	}, nil
}

func (m *MockClient) SynthesizeSpeech(ctx context.Context, text string) (*Audio, error) {
	return nil, nil
}
