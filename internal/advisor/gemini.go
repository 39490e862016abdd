package advisor

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/jsonx"
	"github.com/muhammadolammi/careeradvisor/internal/logger"
)

// generator is the part of the genai client this package uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ReportEvaluator runs a free-form evaluation prompt and returns the raw reply.
type ReportEvaluator interface {
	Evaluate(ctx context.Context, userID, message string) (string, error)
}

type GeminiConfig struct {
	FastModel    string
	ProModel     string
	TTSModel     string
	Voice        string
	Language     string
	MaxQuestions int
}

func (c *GeminiConfig) applyDefaults() {
	if c.FastModel == "" {
		c.FastModel = "gemini-2.5-flash"
	}
	if c.ProModel == "" {
		c.ProModel = "gemini-2.5-pro"
	}
	if c.TTSModel == "" {
		c.TTSModel = "gemini-2.5-flash-preview-tts"
	}
	if c.Voice == "" {
		c.Voice = "Kore"
	}
	if c.Language == "" {
		c.Language = "Vietnamese"
	}
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = 12
	}
}

// Gemini implements Service on the Gemini API.
type Gemini struct {
	models    generator
	evaluator ReportEvaluator
	cfg       GeminiConfig
	log       *logger.Logger
}

// NewGemini creates a client for the Gemini API. evaluator may be nil, in
// which case simulation reports are produced with a schema-constrained call.
func NewGemini(ctx context.Context, apiKey string, cfg GeminiConfig, evaluator ReportEvaluator, log *logger.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGemini(client.Models, cfg, evaluator, log), nil
}

func newGemini(models generator, cfg GeminiConfig, evaluator ReportEvaluator, log *logger.Logger) *Gemini {
	cfg.applyDefaults()
	return &Gemini{models: models, evaluator: evaluator, cfg: cfg, log: log}
}

var _ Service = (*Gemini)(nil)

// transcriptEntry is the wire shape of one turn inside a prompt.
type transcriptEntry struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Filler bool   `json:"isFeedback,omitempty"`
}

func transcript(turns []domain.Turn) string {
	entries := make([]transcriptEntry, 0, len(turns))
	for _, t := range turns {
		sender := "ai"
		if t.Speaker == domain.SpeakerRespondent {
			sender = "user"
		}
		entries = append(entries, transcriptEntry{Sender: sender, Text: t.Content.Flatten(), Filler: t.IsFiller})
	}
	data, _ := json.Marshal(entries)
	return string(data)
}

// imageParts returns inline parts for every image attached by the respondent.
func imageParts(turns []domain.Turn) []*genai.Part {
	var parts []*genai.Part
	for _, t := range turns {
		if t.Speaker != domain.SpeakerRespondent {
			continue
		}
		for _, img := range t.Content.Images {
			if len(img.Data) == 0 {
				continue
			}
			parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
		}
	}
	return parts
}

func (g *Gemini) generateJSON(ctx context.Context, model string, parts []*genai.Part, system string, schema *genai.Schema, out any) error {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
	}
	if resp == nil {
		return fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}
	text := resp.Text()
	if err := jsonx.Decode(text, out); err != nil {
		if g.log != nil {
			g.log.Warn("advisory reply could not be decoded", "model", model, "reply", text)
		}
		return err
	}
	return nil
}

func (g *Gemini) NextQuestion(ctx context.Context, turns []domain.Turn, branch domain.Branch, speed domain.Speed) (*domain.QuestionOutcome, error) {
	// The branch choice is the first respondent turn and is not an answer.
	answered := domain.CountRespondent(turns) - 1
	if answered < 0 {
		answered = 0
	}
	if answered >= g.cfg.MaxQuestions {
		return &domain.QuestionOutcome{Done: true}, nil
	}

	model := g.cfg.ProModel
	if speed != domain.SpeedThorough {
		model = g.cfg.FastModel
	}
	parts := []*genai.Part{genai.NewPartFromText("Conversation history:\n" + transcript(turns))}
	parts = append(parts, imageParts(turns)...)

	var out domain.QuestionOutcome
	system := nextQuestionInstruction(answered, g.cfg.MaxQuestions, branch, g.cfg.Language)
	if err := g.generateJSON(ctx, model, parts, system, nextQuestionSchema, &out); err != nil {
		return nil, err
	}
	if !out.Done && out.Question == "" {
		return nil, fmt.Errorf("%w: question missing from non-terminal reply", domain.ErrMalformedResponse)
	}
	if out.Options == nil {
		out.Options = []string{}
	}
	return &out, nil
}

func (g *Gemini) Advice(ctx context.Context, turns []domain.Turn, branch domain.Branch) (*domain.AdviceResult, error) {
	parts := []*genai.Part{genai.NewPartFromText(advicePrompt(transcript(turns), branch, g.cfg.Language))}
	parts = append(parts, imageParts(turns)...)

	var out domain.AdviceResult
	if err := g.generateJSON(ctx, g.cfg.ProModel, parts, "", adviceSchema, &out); err != nil {
		return nil, err
	}
	out.Sanitize()
	return &out, nil
}

func (g *Gemini) SimulationPlan(ctx context.Context, career string) (*domain.SimulationPlan, error) {
	parts := []*genai.Part{genai.NewPartFromText(simulationPlanPrompt(career, g.cfg.Language))}

	var out domain.SimulationPlan
	if err := g.generateJSON(ctx, g.cfg.FastModel, parts, "", simulationPlanSchema, &out); err != nil {
		return nil, err
	}
	if out.Career == "" {
		out.Career = career
	}
	return &out, nil
}

func (g *Gemini) SimulationReport(ctx context.Context, career string, answers []domain.UserAnswer) (*domain.SimulationReport, error) {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	msg := simulationReportPrompt(career, string(answersJSON))

	var out domain.SimulationReport
	if g.evaluator != nil {
		reply, err := g.evaluator.Evaluate(ctx, career, msg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
		}
		if err := jsonx.Decode(reply, &out); err != nil {
			return nil, err
		}
	} else {
		parts := []*genai.Part{genai.NewPartFromText(msg)}
		if err := g.generateJSON(ctx, g.cfg.ProModel, parts, evaluatorPrompt(g.cfg.Language), simulationReportSchema, &out); err != nil {
			return nil, err
		}
	}
	out.Sanitize()
	return &out, nil
}

func (g *Gemini) Assessment(ctx context.Context, career string, level domain.SkillLevel) ([]domain.AssessmentQuestion, error) {
	parts := []*genai.Part{genai.NewPartFromText(assessmentPrompt(career, level, g.cfg.Language))}

	var out []domain.AssessmentQuestion
	if err := g.generateJSON(ctx, g.cfg.FastModel, parts, "", assessmentSchema, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gemini) EvaluateAssessment(ctx context.Context, career string, answers []domain.AssessmentAnswer) (*domain.AssessmentResult, error) {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	parts := []*genai.Part{genai.NewPartFromText(evaluateAssessmentPrompt(career, string(answersJSON), g.cfg.Language))}

	var out domain.AssessmentResult
	if err := g.generateJSON(ctx, g.cfg.ProModel, parts, "", assessmentResultSchema, &out); err != nil {
		return nil, err
	}
	if !out.Level.Valid() {
		return nil, fmt.Errorf("%w: unknown level %q", domain.ErrMalformedResponse, out.Level)
	}
	return &out, nil
}

func (g *Gemini) SideHustles(ctx context.Context, career string, level domain.SkillLevel, skills domain.SkillSet) ([]domain.SideHustle, error) {
	parts := []*genai.Part{genai.NewPartFromText(sideHustlePrompt(career, level, skills, g.cfg.Language))}

	var out []domain.SideHustle
	if err := g.generateJSON(ctx, g.cfg.FastModel, parts, "", sideHustleSchema, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gemini) SynthesizeSpeech(ctx context.Context, text string) (*Audio, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.cfg.Voice},
			},
		},
	}
	resp, err := g.models.GenerateContent(ctx, g.cfg.TTSModel, genai.Text(text), config)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Audio{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
		}
	}
	return nil, nil
}
