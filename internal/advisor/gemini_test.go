package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/logger"
)

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeGenerator struct {
	replies []*genai.GenerateContentResponse
	err     error
	calls   []generateCall
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, generateCall{model: model, contents: contents, config: config})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.replies) == 0 {
		return textReply(""), nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

func textReply(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

type fakeEvaluator struct {
	reply   string
	err     error
	message string
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, userID, message string) (string, error) {
	f.message = message
	return f.reply, f.err
}

func history(respondentTurns int) []domain.Turn {
	turns := []domain.Turn{{ID: 0, Speaker: domain.SpeakerAssistant, Content: domain.TextContent("hello")}}
	for i := 0; i < respondentTurns; i++ {
		turns = append(turns, domain.Turn{ID: len(turns), Speaker: domain.SpeakerRespondent, Content: domain.TextContent("answer")})
	}
	return turns
}

func newTestGemini(gen *fakeGenerator, ev ReportEvaluator) *Gemini {
	return newGemini(gen, GeminiConfig{FastModel: "fast", ProModel: "pro", TTSModel: "tts"}, ev, logger.NewNop())
}

func TestNextQuestionSelectsModelBySpeed(t *testing.T) {
	gen := &fakeGenerator{replies: []*genai.GenerateContentResponse{
		textReply(`{"nextQuestion":"Q1","options":["a","b"],"isComplete":false}`),
		textReply("```json\n{\"nextQuestion\":\"Q2\",\"isComplete\":false}\n```"),
	}}
	g := newTestGemini(gen, nil)

	out, err := g.NextQuestion(context.Background(), history(1), domain.BranchNoDirection, domain.SpeedFast)
	require.NoError(t, err)
	assert.Equal(t, "Q1", out.Question)
	assert.Equal(t, []string{"a", "b"}, out.Options)

	out, err = g.NextQuestion(context.Background(), history(1), domain.BranchNoDirection, domain.SpeedThorough)
	require.NoError(t, err)
	assert.Equal(t, "Q2", out.Question)
	assert.NotNil(t, out.Options)
	assert.Empty(t, out.Options)

	require.Len(t, gen.calls, 2)
	assert.Equal(t, "fast", gen.calls[0].model)
	assert.Equal(t, "pro", gen.calls[1].model)
	assert.Equal(t, "application/json", gen.calls[0].config.ResponseMIMEType)
	require.NotNil(t, gen.calls[0].config.SystemInstruction)
	assert.Contains(t, gen.calls[0].config.SystemInstruction.Parts[0].Text, "CURRENT TURN: 1/12")
}

func TestNextQuestionStopsAtQuestionCap(t *testing.T) {
	gen := &fakeGenerator{}
	g := newTestGemini(gen, nil)

	out, err := g.NextQuestion(context.Background(), history(13), domain.BranchHasDirection, domain.SpeedFast)
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Empty(t, gen.calls)
}

func TestNextQuestionSendsImages(t *testing.T) {
	gen := &fakeGenerator{replies: []*genai.GenerateContentResponse{textReply(`{"isComplete":true,"nextQuestion":""}`)}}
	g := newTestGemini(gen, nil)

	turns := history(1)
	turns = append(turns, domain.Turn{
		ID:      2,
		Speaker: domain.SpeakerRespondent,
		Content: domain.TextWithImages("my drawing", []domain.Image{{Name: "a.png", MIMEType: "image/png", Data: []byte{1, 2}}}),
	})

	out, err := g.NextQuestion(context.Background(), turns, domain.BranchNoDirection, domain.SpeedFast)
	require.NoError(t, err)
	assert.True(t, out.Done)

	parts := gen.calls[0].contents[0].Parts
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, "[image 1: a.png]")
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
}

func TestNextQuestionErrors(t *testing.T) {
	g := newTestGemini(&fakeGenerator{err: errors.New("connection reset")}, nil)
	_, err := g.NextQuestion(context.Background(), history(1), domain.BranchNoDirection, domain.SpeedFast)
	assert.ErrorIs(t, err, domain.ErrRequestFailed)
	assert.Contains(t, err.Error(), "connection reset")

	g = newTestGemini(&fakeGenerator{replies: []*genai.GenerateContentResponse{textReply("I am not sure")}}, nil)
	_, err = g.NextQuestion(context.Background(), history(1), domain.BranchNoDirection, domain.SpeedFast)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)

	g = newTestGemini(&fakeGenerator{replies: []*genai.GenerateContentResponse{textReply(`{"isComplete":false}`)}}, nil)
	_, err = g.NextQuestion(context.Background(), history(1), domain.BranchNoDirection, domain.SpeedFast)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestAdviceSanitizes(t *testing.T) {
	gen := &fakeGenerator{replies: []*genai.GenerateContentResponse{textReply(`Sure! {
		"recommendedCareers":[{"career":"Nurse","reason":"caring","matchRate":140}],
		"hollandAnalysis":{"scores":{"R":12,"I":-1,"A":3,"S":9,"E":2,"C":4},"primaryCode":"SAC"},
		"finalMotivation":"go"}`)}}
	g := newTestGemini(gen, nil)

	out, err := g.Advice(context.Background(), history(3), domain.BranchHasDirection)
	require.NoError(t, err)
	require.Len(t, out.RecommendedCareers, 1)
	assert.Equal(t, 100.0, *out.RecommendedCareers[0].MatchRate)
	assert.NotNil(t, out.RecommendedCareers[0].Universities)
	assert.Equal(t, 10.0, out.HollandAnalysis.Scores.R)
	assert.Equal(t, 0.0, out.HollandAnalysis.Scores.I)
	assert.NotNil(t, out.Skills.HardSkills)
	assert.Equal(t, "pro", gen.calls[0].model)
}

func TestSimulationReportUsesEvaluator(t *testing.T) {
	ev := &fakeEvaluator{reply: "```json\n{\"strengths\":\"calm\",\"competencySummary\":{\"criticalThinking\":11,\"communication\":5}}\n```"}
	gen := &fakeGenerator{}
	g := newTestGemini(gen, ev)

	answers := []domain.UserAnswer{{TaskDescription: "t1", Answer: "a1"}}
	out, err := g.SimulationReport(context.Background(), "Nurse", answers)
	require.NoError(t, err)
	assert.Equal(t, "calm", out.Strengths)
	assert.Equal(t, 10.0, out.CompetencySummary.CriticalThinking)
	assert.NotNil(t, out.DevelopmentSuggestions)
	assert.Contains(t, ev.message, `"taskDescription":"t1"`)
	assert.Empty(t, gen.calls)
}

func TestSimulationReportWithoutEvaluator(t *testing.T) {
	gen := &fakeGenerator{replies: []*genai.GenerateContentResponse{textReply(`{"strengths":"s","improvements":"i"}`)}}
	g := newTestGemini(gen, nil)

	out, err := g.SimulationReport(context.Background(), "Nurse", nil)
	require.NoError(t, err)
	assert.Equal(t, "s", out.Strengths)
	require.NotNil(t, gen.calls[0].config.SystemInstruction)
	assert.Contains(t, gen.calls[0].config.SystemInstruction.Parts[0].Text, "competencySummary")
}

func TestSimulationPlanDefaultsCareer(t *testing.T) {
	gen := &fakeGenerator{replies: []*genai.GenerateContentResponse{textReply(`{"introduction":"hi","tasks":[{"description":"d","type":"text-input"}]}`)}}
	g := newTestGemini(gen, nil)

	plan, err := g.SimulationPlan(context.Background(), "Chef")
	require.NoError(t, err)
	assert.Equal(t, "Chef", plan.Career)
	assert.Len(t, plan.Tasks, 1)
}

func TestEvaluateAssessmentRejectsUnknownLevel(t *testing.T) {
	gen := &fakeGenerator{replies: []*genai.GenerateContentResponse{textReply(`{"level":"Expert","score":90}`)}}
	g := newTestGemini(gen, nil)

	_, err := g.EvaluateAssessment(context.Background(), "Chef", nil)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestAssessmentAndSideHustlesDecodeArrays(t *testing.T) {
	gen := &fakeGenerator{replies: []*genai.GenerateContentResponse{
		textReply(`[{"id":1,"question":"q","options":["a","b"]}]`),
		textReply(`Here: [{"title":"Blog","type":"Self-marketing"}]`),
	}}
	g := newTestGemini(gen, nil)

	qs, err := g.Assessment(context.Background(), "Chef", domain.LevelBeginner)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, 1, qs[0].ID)

	hustles, err := g.SideHustles(context.Background(), "Chef", domain.LevelBeginner, domain.SkillSet{HardSkills: []string{"knife"}})
	require.NoError(t, err)
	require.Len(t, hustles, 1)
	assert.Equal(t, "Blog", hustles[0].Title)
	assert.True(t, strings.Contains(gen.calls[1].contents[0].Parts[0].Text, "knife"))
}

func TestSynthesizeSpeech(t *testing.T) {
	audio := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{Data: []byte{9, 9}, MIMEType: "audio/L16;rate=24000"}}}},
	}}}
	gen := &fakeGenerator{replies: []*genai.GenerateContentResponse{audio, {}}}
	g := newTestGemini(gen, nil)

	out, err := g.SynthesizeSpeech(context.Background(), "hello")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, []byte{9, 9}, out.Data)
	assert.Equal(t, "tts", gen.calls[0].model)
	assert.Equal(t, []string{"AUDIO"}, gen.calls[0].config.ResponseModalities)

	out, err = g.SynthesizeSpeech(context.Background(), "again")
	require.NoError(t, err)
	assert.Nil(t, out)
}

type slowService struct {
	MockClient
}

func (s *slowService) NextQuestion(ctx context.Context, turns []domain.Turn, branch domain.Branch, speed domain.Speed) (*domain.QuestionOutcome, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	svc := WithTimeout(&slowService{}, 10*time.Millisecond)

	_, err := svc.NextQuestion(context.Background(), nil, domain.BranchNoDirection, domain.SpeedFast)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeout)

	plan, err := svc.SimulationPlan(context.Background(), "Chef")
	require.NoError(t, err)
	assert.Equal(t, "Chef", plan.Career)
}

func TestWithTimeoutDisabled(t *testing.T) {
	mock := NewMockClient()
	assert.Same(t, Service(mock), WithTimeout(mock, 0))
}
