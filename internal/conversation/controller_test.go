package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

type call struct {
	history []domain.Turn
	branch  domain.Branch
	speed   domain.Speed
}

type scriptedAdvisor struct {
	mu        sync.Mutex
	outcomes  []*domain.QuestionOutcome
	nextErr   error
	adviceErr error
	gate      chan struct{}
	entered   chan struct{}

	questionCalls []call
	adviceCalls   []call
}

func (s *scriptedAdvisor) NextQuestion(ctx context.Context, turns []domain.Turn, branch domain.Branch, speed domain.Speed) (*domain.QuestionOutcome, error) {
	s.mu.Lock()
	s.questionCalls = append(s.questionCalls, call{history: turns, branch: branch, speed: speed})
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		s.entered <- struct{}{}
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextErr != nil {
		return nil, s.nextErr
	}
	out := s.outcomes[0]
	s.outcomes = s.outcomes[1:]
	return out, nil
}

func (s *scriptedAdvisor) Advice(ctx context.Context, turns []domain.Turn, branch domain.Branch) (*domain.AdviceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adviceCalls = append(s.adviceCalls, call{history: turns, branch: branch})
	if s.adviceErr != nil {
		return nil, s.adviceErr
	}
	return &domain.AdviceResult{
		RecommendedCareers: []domain.Career{{Career: "Graphic Designer"}},
	}, nil
}

type recordingNarrator struct {
	mu     sync.Mutex
	texts  []string
	filler []bool
}

func (r *recordingNarrator) Announce(turnID int, text string, filler bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	r.filler = append(r.filler, filler)
}

type recordingObserver struct {
	mu     sync.Mutex
	turns  []domain.Turn
	states []State
}

func (r *recordingObserver) TurnAppended(t domain.Turn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = append(r.turns, t)
}

func (r *recordingObserver) StateChanged(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func question(q string, opts ...string) *domain.QuestionOutcome {
	if opts == nil {
		opts = []string{}
	}
	return &domain.QuestionOutcome{Question: q, Options: opts}
}

func firstPicker(int) int { return 0 }

func TestNewAppendsOpeningPrompt(t *testing.T) {
	narrator := &recordingNarrator{}
	c := New(&scriptedAdvisor{}, WithNarrator(narrator))

	turns := c.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, domain.SpeakerAssistant, turns[0].Speaker)
	assert.Equal(t, OpeningPrompt, turns[0].Content.Text)
	assert.Equal(t, domain.PlaybackPending, turns[0].Playback)
	assert.Equal(t, StateAwaitingBranchChoice, c.State())
	assert.Equal(t, []string{BranchChoices[0].Text, BranchChoices[1].Text}, c.Options())
	assert.Equal(t, []string{OpeningPrompt}, narrator.texts)
}

func TestInterviewFlow(t *testing.T) {
	svc := &scriptedAdvisor{outcomes: []*domain.QuestionOutcome{
		question("What subjects do you enjoy?", "Maths", "Art", "History"),
		{Done: true},
	}}
	narrator := &recordingNarrator{}
	c := New(svc, WithNarrator(narrator), WithPicker(firstPicker))
	ctx := context.Background()

	require.NoError(t, c.ChooseBranch(ctx, domain.BranchNoDirection))

	require.Len(t, svc.questionCalls, 1)
	assert.Len(t, svc.questionCalls[0].history, 2)
	assert.Equal(t, domain.BranchNoDirection, svc.questionCalls[0].branch)
	assert.Equal(t, domain.SpeedFast, svc.questionCalls[0].speed)
	assert.Len(t, c.Turns(), 3)
	assert.Equal(t, StateInterviewing, c.State())
	assert.Equal(t, []string{"Maths", "Art", "History"}, c.Options())

	require.NoError(t, c.Answer(ctx, Answer{Option: "Art"}))

	require.Len(t, svc.questionCalls, 2)
	history := svc.questionCalls[1].history
	require.Len(t, history, 5)
	assert.Equal(t, "Art", history[3].Content.Text)
	assert.Equal(t, domain.SpeakerRespondent, history[3].Speaker)
	assert.True(t, history[4].IsFiller)
	assert.Equal(t, Encouragements[0], history[4].Content.Text)

	turns := c.Turns()
	require.Len(t, turns, 6)
	assert.Equal(t, ClosingNotice, turns[5].Content.Text)

	require.Len(t, svc.adviceCalls, 1)
	assert.Len(t, svc.adviceCalls[0].history, 6)
	assert.Equal(t, domain.BranchNoDirection, svc.adviceCalls[0].branch)
	assert.Equal(t, StateCompleted, c.State())
	require.NotNil(t, c.Advice())
	assert.Equal(t, "Graphic Designer", c.Advice().RecommendedCareers[0].Career)

	for i, turn := range turns {
		assert.Equal(t, i, turn.ID)
	}
	assert.Equal(t, []bool{false, false, true, false}, narrator.filler)
}

func TestFreeTextAnswerWithImages(t *testing.T) {
	svc := &scriptedAdvisor{outcomes: []*domain.QuestionOutcome{
		question("Show me something you made."),
		question("Why do you like it?"),
	}}
	c := New(svc, WithPicker(firstPicker))
	ctx := context.Background()
	require.NoError(t, c.ChooseBranch(ctx, domain.BranchHasDirection))
	assert.Empty(t, c.Options())

	img := domain.Image{Name: "sketch.png", MIMEType: "image/png", Data: []byte{1}}
	require.NoError(t, c.Answer(ctx, Answer{Text: "  my sketch ", Images: []domain.Image{img}}))

	reply := c.Turns()[3]
	assert.Equal(t, domain.ContentTextWithImages, reply.Content.Kind)
	assert.Equal(t, "my sketch", reply.Content.Text)
	require.Len(t, reply.Content.Images, 1)
	assert.Equal(t, "sketch.png", reply.Content.Images[0].Name)
}

func TestAnswerValidation(t *testing.T) {
	svc := &scriptedAdvisor{outcomes: []*domain.QuestionOutcome{
		question("Pick one", "A", "B"),
	}}
	c := New(svc)
	ctx := context.Background()

	err := c.Answer(ctx, Answer{Text: "too early"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assert.ErrorIs(t, c.ChooseBranch(ctx, "maybe"), domain.ErrInvalidBranch)
	require.NoError(t, c.ChooseBranch(ctx, domain.BranchHasDirection))

	assert.ErrorIs(t, c.Answer(ctx, Answer{Text: "   "}), domain.ErrEmptyAnswer)
	assert.ErrorIs(t, c.Answer(ctx, Answer{Option: "C"}), domain.ErrInvalidOption)
	assert.Len(t, c.Turns(), 3)
	assert.Len(t, svc.questionCalls, 1)
}

func TestCheckDoesNotRecord(t *testing.T) {
	svc := &scriptedAdvisor{outcomes: []*domain.QuestionOutcome{
		question("Pick one", "A", "B"),
	}}
	c := New(svc)
	ctx := context.Background()

	assert.ErrorIs(t, c.Check(Answer{Option: "A"}), domain.ErrInvalidState)
	require.NoError(t, c.ChooseBranch(ctx, domain.BranchHasDirection))

	assert.ErrorIs(t, c.Check(Answer{Option: "C"}), domain.ErrInvalidOption)
	assert.ErrorIs(t, c.Check(Answer{}), domain.ErrEmptyAnswer)
	assert.NoError(t, c.Check(Answer{Option: "A"}))
	assert.NoError(t, c.Check(Answer{Images: []domain.Image{{Name: "a.png"}}}))
	assert.Len(t, c.Turns(), 3)
	assert.Equal(t, StateInterviewing, c.State())
}

func TestBranchIsImmutable(t *testing.T) {
	svc := &scriptedAdvisor{outcomes: []*domain.QuestionOutcome{question("Q1")}}
	c := New(svc)
	ctx := context.Background()

	require.NoError(t, c.ChooseBranch(ctx, domain.BranchHasDirection))
	err := c.ChooseBranch(ctx, domain.BranchNoDirection)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, domain.BranchHasDirection, c.Branch())
}

func TestRequestInFlight(t *testing.T) {
	svc := &scriptedAdvisor{
		outcomes: []*domain.QuestionOutcome{question("Q1", "X", "Y")},
		gate:     make(chan struct{}),
		entered:  make(chan struct{}, 1),
	}
	c := New(svc)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.ChooseBranch(ctx, domain.BranchNoDirection) }()
	<-svc.entered

	assert.Equal(t, StateAwaitingNextQuestion, c.State())
	assert.Empty(t, c.Options())
	assert.ErrorIs(t, c.Answer(ctx, Answer{Text: "hello"}), domain.ErrRequestInFlight)
	assert.ErrorIs(t, c.ChooseBranch(ctx, domain.BranchHasDirection), domain.ErrRequestInFlight)

	close(svc.gate)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"X", "Y"}, c.Options())
	assert.Len(t, svc.questionCalls, 1)
}

func TestFailureIsTerminal(t *testing.T) {
	svc := &scriptedAdvisor{nextErr: domain.ErrMalformedResponse}
	obs := &recordingObserver{}
	c := New(svc, WithObserver(obs))
	ctx := context.Background()

	err := c.ChooseBranch(ctx, domain.BranchNoDirection)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, err, c.Err())
	assert.Len(t, c.Turns(), 2)
	assert.Equal(t, []State{StateAwaitingNextQuestion, StateFailed}, obs.states)

	assert.ErrorIs(t, c.Answer(ctx, Answer{Text: "again"}), domain.ErrSessionFailed)
}

func TestAdviceFailure(t *testing.T) {
	svc := &scriptedAdvisor{
		outcomes:  []*domain.QuestionOutcome{{Done: true}},
		adviceErr: domain.ErrTimeout,
	}
	c := New(svc)

	err := c.ChooseBranch(context.Background(), domain.BranchHasDirection)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Equal(t, StateFailed, c.State())
	assert.Nil(t, c.Advice())
	assert.Len(t, c.Turns(), 3)
}

func TestSpeedPreference(t *testing.T) {
	svc := &scriptedAdvisor{outcomes: []*domain.QuestionOutcome{question("Q1"), question("Q2")}}
	c := New(svc)
	ctx := context.Background()

	assert.ErrorIs(t, c.SetSpeed("warp"), domain.ErrInvalidSpeed)
	require.NoError(t, c.SetSpeed(domain.SpeedThorough))
	require.NoError(t, c.ChooseBranch(ctx, domain.BranchHasDirection))
	require.NoError(t, c.SetSpeed(domain.SpeedFast))
	require.NoError(t, c.Answer(ctx, Answer{Text: "hello"}))

	assert.Equal(t, domain.SpeedThorough, svc.questionCalls[0].speed)
	assert.Equal(t, domain.SpeedFast, svc.questionCalls[1].speed)
}

func TestSharedSequence(t *testing.T) {
	seq := &Sequence{}
	first := New(&scriptedAdvisor{}, WithSequence(seq))
	second := New(&scriptedAdvisor{}, WithSequence(seq))

	assert.Equal(t, 0, first.Turns()[0].ID)
	assert.Equal(t, 1, second.Turns()[0].ID)
}

func TestPlayback(t *testing.T) {
	svc := &scriptedAdvisor{outcomes: []*domain.QuestionOutcome{question("Q1")}}
	c := New(svc)
	require.NoError(t, c.ChooseBranch(context.Background(), domain.BranchHasDirection))

	assert.True(t, c.SetPlayback(0, domain.PlaybackPlaying))
	assert.False(t, c.SetPlayback(1, domain.PlaybackPlaying), "respondent turns have no playback")
	assert.False(t, c.SetPlayback(99, domain.PlaybackPlayed))

	c.ResolvePlayback()
	for _, turn := range c.Turns() {
		if turn.Speaker == domain.SpeakerAssistant {
			assert.Equal(t, domain.PlaybackPlayed, turn.Playback)
		} else {
			assert.Empty(t, turn.Playback)
		}
	}
}

func TestSnapshot(t *testing.T) {
	c := New(&scriptedAdvisor{})
	v := c.Snapshot()

	assert.Equal(t, StateAwaitingBranchChoice, v.State)
	assert.Equal(t, BranchChoices, v.Choices)
	assert.Len(t, v.Turns, 1)
	assert.Len(t, v.Options, 2)
}
