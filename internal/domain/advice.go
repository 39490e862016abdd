package domain

type Institution struct {
	Name           string `json:"name"`
	Region         string `json:"region"`
	AdmissionScore string `json:"admissionScore"`
}

type MindMapBranch struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// MindMap is the progression diagram attached to each recommended career.
type MindMap struct {
	Center   string          `json:"center"`
	Branches []MindMapBranch `json:"branches"`
}

type Career struct {
	Career          string        `json:"career"`
	Reason          string        `json:"reason"`
	MatchRate       *float64      `json:"matchRate,omitempty"`
	IncomeReference string        `json:"incomeReference,omitempty"`
	Universities    []Institution `json:"universities"`
	MindMap         *MindMap      `json:"mindmap,omitempty"`
}

// HollandScores holds RIASEC scores on a 0..10 scale.
type HollandScores struct {
	R float64 `json:"R"`
	I float64 `json:"I"`
	A float64 `json:"A"`
	S float64 `json:"S"`
	E float64 `json:"E"`
	C float64 `json:"C"`
}

type HollandAnalysis struct {
	Scores      HollandScores `json:"scores"`
	PrimaryCode string        `json:"primaryCode"`
	Description string        `json:"description"`
}

type SkillSet struct {
	HardSkills []string `json:"hardSkills"`
	SoftSkills []string `json:"softSkills"`
}

// AdviceResult is produced once per completed interview and never modified.
type AdviceResult struct {
	RecommendedCareers []Career         `json:"recommendedCareers"`
	HollandAnalysis    *HollandAnalysis `json:"hollandAnalysis,omitempty"`
	Skills             SkillSet         `json:"skills"`
	FinalMotivation    string           `json:"finalMotivation"`
	SupportiveAdvice   string           `json:"supportiveAdvice,omitempty"`
}

// FindCareer looks up a recommended career by name.
func (a *AdviceResult) FindCareer(name string) (Career, bool) {
	if a == nil {
		return Career{}, false
	}
	for _, c := range a.RecommendedCareers {
		if c.Career == name {
			return c, true
		}
	}
	return Career{}, false
}

// Sanitize fills nil slices and clamps scores into range.
func (a *AdviceResult) Sanitize() {
	if a.RecommendedCareers == nil {
		a.RecommendedCareers = []Career{}
	}
	for i := range a.RecommendedCareers {
		c := &a.RecommendedCareers[i]
		if c.Universities == nil {
			c.Universities = []Institution{}
		}
		if c.MatchRate != nil {
			v := clamp(*c.MatchRate, 0, 100)
			c.MatchRate = &v
		}
	}
	if h := a.HollandAnalysis; h != nil {
		h.Scores.R = clamp(h.Scores.R, 0, 10)
		h.Scores.I = clamp(h.Scores.I, 0, 10)
		h.Scores.A = clamp(h.Scores.A, 0, 10)
		h.Scores.S = clamp(h.Scores.S, 0, 10)
		h.Scores.E = clamp(h.Scores.E, 0, 10)
		h.Scores.C = clamp(h.Scores.C, 0, 10)
	}
	if a.Skills.HardSkills == nil {
		a.Skills.HardSkills = []string{}
	}
	if a.Skills.SoftSkills == nil {
		a.Skills.SoftSkills = []string{}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
