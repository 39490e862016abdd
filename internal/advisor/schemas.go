package advisor

import "google.golang.org/genai"

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
func num() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }

func strList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: str()}
}

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func arrayOf(item *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: item}
}

var nextQuestionSchema = object(map[string]*genai.Schema{
	"nextQuestion": str(),
	"options":      strList(),
	"isComplete":   {Type: genai.TypeBoolean},
}, "nextQuestion", "isComplete")

var adviceSchema = object(map[string]*genai.Schema{
	"recommendedCareers": arrayOf(object(map[string]*genai.Schema{
		"career":          str(),
		"reason":          str(),
		"matchRate":       num(),
		"incomeReference": str(),
		"universities": arrayOf(object(map[string]*genai.Schema{
			"name":           str(),
			"region":         str(),
			"admissionScore": str(),
		})),
		"mindmap": object(map[string]*genai.Schema{
			"center": str(),
			"branches": arrayOf(object(map[string]*genai.Schema{
				"title": str(),
				"items": strList(),
			})),
		}),
	}, "career", "reason")),
	"hollandAnalysis": object(map[string]*genai.Schema{
		"scores": object(map[string]*genai.Schema{
			"R": num(), "I": num(), "A": num(), "S": num(), "E": num(), "C": num(),
		}),
		"primaryCode": str(),
		"description": str(),
	}),
	"skills": object(map[string]*genai.Schema{
		"hardSkills": strList(),
		"softSkills": strList(),
	}),
	"finalMotivation":  str(),
	"supportiveAdvice": str(),
}, "recommendedCareers")

var simulationPlanSchema = object(map[string]*genai.Schema{
	"career":       str(),
	"introduction": str(),
	"tasks": arrayOf(object(map[string]*genai.Schema{
		"description": str(),
		"type":        {Type: genai.TypeString, Enum: []string{"multiple-choice", "text-input"}},
		"options":     strList(),
	}, "description", "type")),
}, "career", "introduction", "tasks")

var simulationReportSchema = object(map[string]*genai.Schema{
	"strengths":    str(),
	"improvements": str(),
	"competencySummary": object(map[string]*genai.Schema{
		"criticalThinking":   num(),
		"professionalSkills": num(),
		"communication":      num(),
		"adaptability":       num(),
	}),
	"developmentSuggestions": strList(),
	"refinedRecommendations": strList(),
})

var assessmentSchema = arrayOf(object(map[string]*genai.Schema{
	"id":       {Type: genai.TypeInteger},
	"question": str(),
	"options":  strList(),
}))

var assessmentResultSchema = object(map[string]*genai.Schema{
	"level":      {Type: genai.TypeString, Enum: []string{"Beginner", "Intermediate", "Advanced"}},
	"levelLabel": str(),
	"score":      num(),
	"feedback":   str(),
})

var sideHustleSchema = arrayOf(object(map[string]*genai.Schema{
	"title":           str(),
	"type":            {Type: genai.TypeString, Enum: []string{"Freelance", "Self-marketing"}},
	"actionPlan":      str(),
	"estimatedIncome": str(),
	"difficulty":      str(),
	"reason":          str(),
}))
