package domain

type AssessmentQuestion struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type AssessmentAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type SkillLevel string

const (
	LevelBeginner     SkillLevel = "Beginner"
	LevelIntermediate SkillLevel = "Intermediate"
	LevelAdvanced     SkillLevel = "Advanced"
)

func (l SkillLevel) Valid() bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

type AssessmentResult struct {
	Level      SkillLevel `json:"level"`
	LevelLabel string     `json:"levelLabel"`
	Score      float64    `json:"score"`
	Feedback   string     `json:"feedback"`
}

type SideHustle struct {
	Title           string `json:"title"`
	Type            string `json:"type"`
	ActionPlan      string `json:"actionPlan"`
	EstimatedIncome string `json:"estimatedIncome"`
	Difficulty      string `json:"difficulty"`
	Reason          string `json:"reason"`
}
