package advisor

import (
	"fmt"
	"strings"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

// strategyFor picks the RIASEC focus for the next question from the number of
// questions already answered.
func strategyFor(answered int) string {
	switch {
	case answered < 3:
		return "Explore the Realistic (R) and Investigative (I) groups."
	case answered < 6:
		return "Explore the Artistic (A) and Social (S) groups."
	case answered < 9:
		return "Explore the Enterprising (E) and Conventional (C) groups."
	default:
		return "Confirm the dominant Holland code."
	}
}

func branchGuidance(branch domain.Branch) string {
	if branch == domain.BranchHasDirection {
		return "The student already has a career direction. Probe how well that direction fits them and how confident they are."
	}
	return "The student has no career direction yet. Help them discover interests through everyday situations."
}

func nextQuestionInstruction(answered, maxQuestions int, branch domain.Branch, language string) string {
	return fmt.Sprintf(`You are a career guidance psychologist. Lead the student through at most %d questions to identify their Holland (RIASEC) code.
CURRENT TURN: %d/%d.
STRATEGY: %s
BRANCH: %s
RULES:
1. Never ask about Holland codes directly. Ask about actions, preferences or real situations.
2. Return JSON: { "nextQuestion": "string", "options": ["string"], "isComplete": boolean }
3. Offer 2-4 short options when the question has natural choices, otherwise return an empty options list.
4. Set isComplete = true once %d turns are reached or the student's orientation is clear.
Write the question and options in %s.`,
		maxQuestions, answered+1, maxQuestions, strategyFor(answered), branchGuidance(branch), maxQuestions, language)
}

func advicePrompt(transcript string, branch domain.Branch, language string) string {
	return fmt.Sprintf(`Conversation history: %s
Interview branch: %s

PRODUCE A PERSONALISED CAREER ANALYSIS:
1. Detailed Holland (RIASEC) analysis, each score 0-10.
2. Recommend 3 careers. For each career the mind map MUST be concrete:
   - Stage 1 (Foundation): subjects and skills based on interests stated in the conversation.
   - Stage 2 (Practice): at least one real project or certification.
   - Stage 3 (Soft skills): how this student can work on their weaknesses.
   - Stage 4 (Market): concrete job titles and a five-year outlook.
3. Market information: hiring demand, starting salary reference, matchRate (%%).
4. Suggested universities with region and admission score.
Write in %s, professional and encouraging.`, transcript, branch, language)
}

func simulationPlanPrompt(career, language string) string {
	return fmt.Sprintf("Create a realistic work simulation for the career: %s. Include an introduction and 3 tasks. "+
		"Each task is either \"multiple-choice\" with options or \"text-input\". Write in %s.", career, language)
}

func simulationReportPrompt(career string, answersJSON string) string {
	return fmt.Sprintf("Career: %s\n\nSimulation answers:\n%s", career, answersJSON)
}

// evaluatorPrompt is the instruction of the simulation evaluator agent.
func evaluatorPrompt(language string) string {
	return `
You are an expert career assessor who evaluates a student's answers to a simulated work scenario.

Your goal is to:
- Read each task description and the student's answer.
- Identify strengths and areas to improve.
- Score four competencies from 0 to 10: critical thinking, professional skills, communication, adaptability.
- Suggest concrete development steps and adjacent careers.

Return your result as a structured JSON object in this format:

{
  "strengths": string,
  "improvements": string,
  "competencySummary": {
    "criticalThinking": number,
    "professionalSkills": number,
    "communication": number,
    "adaptability": number
  },
  "developmentSuggestions": [string],
  "refinedRecommendations": [string]
}

Base all reasoning only on the provided answers.
Return only valid JSON. Do not include explanations, markdown, or text before or after the JSON.
Write all text values in ` + language + `.
`
}

func assessmentPrompt(career string, level domain.SkillLevel, language string) string {
	return fmt.Sprintf("Create 5 multiple-choice questions testing knowledge of the career %s at %s level. Write in %s.", career, level, language)
}

func evaluateAssessmentPrompt(career, answersJSON, language string) string {
	return fmt.Sprintf("Grade and assess the level for the career %s based on: %s. Write feedback in %s.", career, answersJSON, language)
}

func sideHustlePrompt(career string, level domain.SkillLevel, skills domain.SkillSet, language string) string {
	return fmt.Sprintf("Suggest 3 realistic side hustles for the career %s at %s level with hard skills [%s] and soft skills [%s]. Write in %s.",
		career, level, strings.Join(skills.HardSkills, ", "), strings.Join(skills.SoftSkills, ", "), language)
}
