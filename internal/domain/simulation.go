package domain

import (
	"fmt"
	"slices"
)

type TaskKind string

const (
	TaskMultipleChoice TaskKind = "multiple-choice"
	TaskTextInput      TaskKind = "text-input"
)

type Task struct {
	Description string   `json:"description"`
	Kind        TaskKind `json:"type"`
	Options     []string `json:"options,omitempty"`
}

// CheckAnswer validates a non-empty answer against the task kind.
func (t Task) CheckAnswer(answer string) error {
	if answer == "" {
		return ErrEmptyAnswer
	}
	switch t.Kind {
	case TaskMultipleChoice:
		if !slices.Contains(t.Options, answer) {
			return ErrInvalidOption
		}
		return nil
	case TaskTextInput:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedTaskKind, t.Kind)
	}
}

type SimulationPlan struct {
	Career       string `json:"career"`
	Introduction string `json:"introduction"`
	Tasks        []Task `json:"tasks"`
}

// Validate rejects plans with no tasks or with task kinds outside the two known ones.
func (p *SimulationPlan) Validate() error {
	if len(p.Tasks) == 0 {
		return fmt.Errorf("%w: plan has no tasks", ErrMalformedResponse)
	}
	for i, t := range p.Tasks {
		switch t.Kind {
		case TaskTextInput:
		case TaskMultipleChoice:
			if len(t.Options) == 0 {
				return fmt.Errorf("%w: task %d has no options", ErrMalformedResponse, i)
			}
		default:
			return fmt.Errorf("%w: task %d has kind %q", ErrUnsupportedTaskKind, i, t.Kind)
		}
	}
	return nil
}

type UserAnswer struct {
	TaskDescription string `json:"taskDescription"`
	Answer          string `json:"answer"`
}

type CompetencySummary struct {
	CriticalThinking   float64 `json:"criticalThinking"`
	ProfessionalSkills float64 `json:"professionalSkills"`
	Communication      float64 `json:"communication"`
	Adaptability       float64 `json:"adaptability"`
}

type SimulationReport struct {
	Strengths              string            `json:"strengths"`
	Improvements           string            `json:"improvements"`
	CompetencySummary      CompetencySummary `json:"competencySummary"`
	DevelopmentSuggestions []string          `json:"developmentSuggestions"`
	RefinedRecommendations []string          `json:"refinedRecommendations"`
}

func (r *SimulationReport) Sanitize() {
	c := &r.CompetencySummary
	c.CriticalThinking = clamp(c.CriticalThinking, 0, 10)
	c.ProfessionalSkills = clamp(c.ProfessionalSkills, 0, 10)
	c.Communication = clamp(c.Communication, 0, 10)
	c.Adaptability = clamp(c.Adaptability, 0, 10)
	if r.DevelopmentSuggestions == nil {
		r.DevelopmentSuggestions = []string{}
	}
	if r.RefinedRecommendations == nil {
		r.RefinedRecommendations = []string{}
	}
}
