// Package report submits a student's advice report to the configured
// webhook. Submissions are queued and delivered by background workers.
package report

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

var validate = validator.New()

type Contact struct {
	StudentName string `json:"studentName" validate:"required"`
	ParentEmail string `json:"parentEmail" validate:"required,email"`
}

func (c Contact) Validate() error {
	c.StudentName = strings.TrimSpace(c.StudentName)
	c.ParentEmail = strings.TrimSpace(c.ParentEmail)
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidContact, err)
	}
	return nil
}

// Career is a recommended career with its institutions flattened to text.
type Career struct {
	Career          string          `json:"career"`
	Reason          string          `json:"reason"`
	MatchRate       *float64        `json:"matchRate,omitempty"`
	IncomeReference string          `json:"incomeReference,omitempty"`
	Universities    string          `json:"universities"`
	MindMap         *domain.MindMap `json:"mindmap,omitempty"`
}

type Data struct {
	RecommendedCareers []Career                `json:"recommendedCareers"`
	HollandAnalysis    *domain.HollandAnalysis `json:"hollandAnalysis,omitempty"`
	Skills             domain.SkillSet         `json:"skills"`
	FinalMotivation    string                  `json:"finalMotivation"`
	SupportiveAdvice   string                  `json:"supportiveAdvice,omitempty"`
}

type Payload struct {
	StudentName string `json:"studentName"`
	ParentEmail string `json:"parentEmail"`
	ReportData  Data   `json:"reportData"`
}

// FlattenInstitutions renders one "name (region) - cutoff: score" line per institution.
func FlattenInstitutions(list []domain.Institution) string {
	lines := make([]string, len(list))
	for i, inst := range list {
		lines[i] = fmt.Sprintf("%s (%s) - cutoff: %s", inst.Name, inst.Region, inst.AdmissionScore)
	}
	return strings.Join(lines, "\n")
}

func BuildPayload(contact Contact, advice *domain.AdviceResult) Payload {
	data := Data{
		RecommendedCareers: make([]Career, len(advice.RecommendedCareers)),
		HollandAnalysis:    advice.HollandAnalysis,
		Skills:             advice.Skills,
		FinalMotivation:    advice.FinalMotivation,
		SupportiveAdvice:   advice.SupportiveAdvice,
	}
	for i, c := range advice.RecommendedCareers {
		data.RecommendedCareers[i] = Career{
			Career:          c.Career,
			Reason:          c.Reason,
			MatchRate:       c.MatchRate,
			IncomeReference: c.IncomeReference,
			Universities:    FlattenInstitutions(c.Universities),
			MindMap:         c.MindMap,
		}
	}
	return Payload{
		StudentName: strings.TrimSpace(contact.StudentName),
		ParentEmail: strings.TrimSpace(contact.ParentEmail),
		ReportData:  data,
	}
}
