package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/careeradvisor/internal/advisor"
	"github.com/muhammadolammi/careeradvisor/internal/conversation"
	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/events"
	"github.com/muhammadolammi/careeradvisor/internal/simulation"
)

type eventLog struct {
	mu  sync.Mutex
	all []events.Event
}

func (l *eventLog) Publish(ctx context.Context, ev events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = append(l.all, ev)
	return nil
}

func (l *eventLog) steps() []Step {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Step
	for _, ev := range l.all {
		if ev.Type == events.TypeStep {
			out = append(out, ev.Data.(Step))
		}
	}
	return out
}

type memRecorder struct {
	mu          sync.Mutex
	interviews  int
	simulations []string
}

func (r *memRecorder) InterviewCompleted(ctx context.Context, id uuid.UUID, branch domain.Branch, turns []domain.Turn, advice *domain.AdviceResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interviews++
	return nil
}

func (r *memRecorder) SimulationCompleted(ctx context.Context, id uuid.UUID, career string, answers []domain.UserAnswer, report *domain.SimulationReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.simulations = append(r.simulations, career)
	return nil
}

type brokenAdvisor struct {
	*advisor.MockClient
}

func (brokenAdvisor) NextQuestion(context.Context, []domain.Turn, domain.Branch, domain.Speed) (*domain.QuestionOutcome, error) {
	return nil, fmt.Errorf("%w: status 503", domain.ErrRequestFailed)
}

// slowAdvisor holds NextQuestion until gate closes, unless its context ends first.
type slowAdvisor struct {
	*advisor.MockClient
	entered chan struct{}
	gate    chan struct{}
}

func (a *slowAdvisor) NextQuestion(ctx context.Context, turns []domain.Turn, branch domain.Branch, speed domain.Speed) (*domain.QuestionOutcome, error) {
	a.entered <- struct{}{}
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrRequestFailed, ctx.Err())
	case <-a.gate:
		return a.MockClient.NextQuestion(ctx, turns, branch, speed)
	}
}

func newShell(t *testing.T, svc advisor.Service) (*Shell, *eventLog, *memRecorder) {
	t.Helper()
	log := &eventLog{}
	rec := &memRecorder{}
	return New(uuid.New(), svc, Deps{Publisher: log, Recorder: rec}), log, rec
}

func completeInterview(t *testing.T, s *Shell) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Start())
	require.NoError(t, s.ChooseBranch(ctx, domain.BranchNoDirection))
	require.NoError(t, s.Answer(ctx, conversation.Answer{Option: "Solving puzzles"}))
	require.NoError(t, s.Answer(ctx, conversation.Answer{Text: "A robot for the science fair"}))
	require.NoError(t, s.Answer(ctx, conversation.Answer{Option: "Building things"}))
}

func TestInterviewToResults(t *testing.T) {
	s, log, rec := newShell(t, advisor.NewMockClient())
	assert.Equal(t, StepLanding, s.Step())

	completeInterview(t, s)
	s.WaitSpeech()

	assert.Equal(t, StepResults, s.Step())
	require.NotNil(t, s.Advice())
	assert.Equal(t, 1, rec.interviews)
	assert.Equal(t, []Step{StepInterview, StepLoading, StepResults}, log.steps())

	v := s.Snapshot()
	require.NotNil(t, v.Interview)
	assert.Equal(t, conversation.StateCompleted, v.Interview.State)
	for _, turn := range v.Interview.Turns {
		if turn.Speaker == domain.SpeakerAssistant {
			assert.Equal(t, domain.PlaybackPlayed, turn.Playback, "turn %d", turn.ID)
		}
	}
	assert.True(t, v.AudioEnabled)
}

func TestSimulationFromResults(t *testing.T) {
	s, log, rec := newShell(t, advisor.NewMockClient())
	ctx := context.Background()
	completeInterview(t, s)

	assert.ErrorIs(t, s.StartSimulation(ctx, "Astronaut"), domain.ErrUnknownCareer)
	assert.Equal(t, StepResults, s.Step())

	require.NoError(t, s.StartSimulation(ctx, "Data Analyst"))
	assert.Equal(t, StepSimulation, s.Step())
	require.NoError(t, s.BeginSimulation())
	assert.ErrorIs(t, s.SubmitTask(ctx, "Panic"), domain.ErrInvalidOption)
	require.NoError(t, s.SubmitTask(ctx, "Replan"))
	require.NoError(t, s.SubmitTask(ctx, "Split the work and check in daily."))

	v := s.Snapshot()
	require.NotNil(t, v.Simulation)
	assert.Equal(t, simulation.StateReport, v.Simulation.State)
	assert.Equal(t, []string{"Data Analyst"}, rec.simulations)

	require.NoError(t, s.BackToResults())
	assert.Equal(t, StepResults, s.Step())
	assert.Nil(t, s.Snapshot().Simulation)
	assert.Equal(t, StepResults, log.steps()[len(log.steps())-1])
}

func TestFailureShowsErrorUntilReset(t *testing.T) {
	s, _, _ := newShell(t, brokenAdvisor{advisor.NewMockClient()})
	ctx := context.Background()
	require.NoError(t, s.Start())

	err := s.ChooseBranch(ctx, domain.BranchHasDirection)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRequestFailed))
	assert.Equal(t, StepError, s.Step())
	assert.Equal(t, err.Error(), s.Snapshot().Error)

	assert.ErrorIs(t, s.Answer(ctx, conversation.Answer{Text: "hi"}), domain.ErrInvalidState)
	assert.ErrorIs(t, s.Start(), domain.ErrInvalidState)

	s.Reset()
	assert.Equal(t, StepLanding, s.Step())
	assert.Empty(t, s.Snapshot().Error)
	require.NoError(t, s.Start())
}

func TestCallerCancellationDoesNotFailInterview(t *testing.T) {
	svc := &slowAdvisor{MockClient: advisor.NewMockClient(), entered: make(chan struct{}, 1), gate: make(chan struct{})}
	s, _, _ := newShell(t, svc)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ChooseBranch(ctx, domain.BranchNoDirection) }()

	<-svc.entered
	cancel()
	close(svc.gate)

	require.NoError(t, <-done)
	assert.Equal(t, StepInterview, s.Step())
	assert.Equal(t, conversation.StateInterviewing, s.Snapshot().Interview.State)
	s.WaitSpeech()
}

func TestValidationErrorsKeepTheSession(t *testing.T) {
	s, _, _ := newShell(t, advisor.NewMockClient())
	ctx := context.Background()
	require.NoError(t, s.Start())
	require.NoError(t, s.ChooseBranch(ctx, domain.BranchHasDirection))

	assert.ErrorIs(t, s.Answer(ctx, conversation.Answer{Text: ""}), domain.ErrEmptyAnswer)
	assert.Equal(t, StepInterview, s.Step())
}

func TestResetKeepsTurnIDsIncreasing(t *testing.T) {
	s, _, _ := newShell(t, advisor.NewMockClient())
	ctx := context.Background()
	require.NoError(t, s.Start())
	require.NoError(t, s.ChooseBranch(ctx, domain.BranchHasDirection))
	last := s.Snapshot().Interview.Turns
	maxID := last[len(last)-1].ID

	s.Reset()
	assert.Nil(t, s.Snapshot().Interview)
	assert.Nil(t, s.Advice())

	require.NoError(t, s.Start())
	first := s.Snapshot().Interview.Turns[0]
	assert.Greater(t, first.ID, maxID)
	s.WaitSpeech()
}

func TestDisableAudioResolvesPlayback(t *testing.T) {
	s, log, _ := newShell(t, advisor.NewMockClient())
	s.SetAudio(false)
	require.NoError(t, s.Start())
	s.WaitSpeech()

	v := s.Snapshot()
	assert.False(t, v.AudioEnabled)
	assert.Equal(t, domain.PlaybackPlayed, v.Interview.Turns[0].Playback)

	log.mu.Lock()
	defer log.mu.Unlock()
	var audio int
	for _, ev := range log.all {
		if ev.Type == events.TypeAudio {
			audio++
		}
	}
	assert.Zero(t, audio)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(time.Minute, advisor.NewMockClient(), Deps{})
	s := r.Create()

	got, err := r.Get(s.ID().String())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.True(t, r.Exists(s.ID().String()))
	assert.Equal(t, 1, r.Len())

	_, err = r.Get(uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	r.Delete(s.ID().String())
	assert.False(t, r.Exists(s.ID().String()))
}
