// Package shell routes one browser session between the landing, interview,
// loading, results, simulation and error steps. It owns the current
// interview and simulation controllers and the session's speech manager.
package shell

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/muhammadolammi/careeradvisor/internal/advisor"
	"github.com/muhammadolammi/careeradvisor/internal/conversation"
	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/events"
	"github.com/muhammadolammi/careeradvisor/internal/logger"
	"github.com/muhammadolammi/careeradvisor/internal/simulation"
	"github.com/muhammadolammi/careeradvisor/internal/speech"
)

type Step string

const (
	StepLanding    Step = "landing"
	StepInterview  Step = "interview"
	StepLoading    Step = "loading"
	StepResults    Step = "results"
	StepSimulation Step = "simulation"
	StepError      Step = "error"
)

type Deps struct {
	Publisher events.Publisher
	Recorder  Recorder
	Phrases   *speech.PhraseCache
	Log       *logger.Logger
}

type Shell struct {
	id     uuid.UUID
	svc    advisor.Service
	speech *speech.Manager
	pub    events.Publisher
	rec    Recorder
	log    *logger.Logger
	seq    conversation.Sequence

	// gen identifies the current interview, simGen the current simulation.
	// Results from an older generation are dropped.
	gen    atomic.Int64
	simGen atomic.Int64

	mu        sync.Mutex
	step      Step
	interview *conversation.Controller
	advice    *domain.AdviceResult
	sim       *simulation.Controller
	errMsg    string
}

func New(id uuid.UUID, svc advisor.Service, deps Deps) *Shell {
	if deps.Publisher == nil {
		deps.Publisher = events.Nop{}
	}
	if deps.Recorder == nil {
		deps.Recorder = NopRecorder{}
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.Phrases == nil {
		deps.Phrases = speech.NewPhraseCache(0)
	}

	log := deps.Log.With("session", id.String())
	s := &Shell{
		id:     id,
		svc:    svc,
		speech: speech.NewManager(svc, deps.Phrases, log),
		pub:    deps.Publisher,
		rec:    deps.Recorder,
		log:    log,
		step:   StepLanding,
	}
	s.speech.Attach(s)
	return s
}

func (s *Shell) ID() uuid.UUID { return s.id }

func (s *Shell) publish(typ events.Type, data any) {
	if err := s.pub.Publish(context.Background(), events.New(s.id.String(), typ, data)); err != nil {
		s.log.Warn("failed to publish session event", "type", typ, "error", err)
	}
}

// transition moves to step if valid still holds, applying mutate first.
func (s *Shell) transition(valid func() bool, step Step, mutate func()) bool {
	s.mu.Lock()
	if !valid() {
		s.mu.Unlock()
		return false
	}
	if mutate != nil {
		mutate()
	}
	s.step = step
	s.mu.Unlock()

	s.publish(events.TypeStep, step)
	return true
}

func (s *Shell) interviewGen(gen int64) func() bool {
	return func() bool { return s.gen.Load() == gen }
}

func (s *Shell) simulationGen(gen int64) func() bool {
	return func() bool { return s.simGen.Load() == gen }
}

func (s *Shell) fail(valid func() bool, err error) {
	s.log.Error("session failed", "error", err)
	s.transition(valid, StepError, func() { s.errMsg = err.Error() })
	s.publish(events.TypeError, err.Error())
}

// Start begins a new interview from the landing step.
func (s *Shell) Start() error {
	s.mu.Lock()
	if s.step != StepLanding {
		step := s.step
		s.mu.Unlock()
		return errStep(step)
	}
	gen := s.gen.Add(1)
	s.interview = conversation.New(s.svc,
		conversation.WithSequence(&s.seq),
		conversation.WithNarrator(&narrator{s: s, gen: gen}),
		conversation.WithObserver(&interviewObserver{s: s, gen: gen}),
	)
	s.step = StepInterview
	s.mu.Unlock()

	s.publish(events.TypeStep, StepInterview)
	return nil
}

func (s *Shell) currentInterview() (*conversation.Controller, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepInterview || s.interview == nil {
		return nil, 0, errStep(s.step)
	}
	return s.interview, s.gen.Load(), nil
}

// ChooseBranch and the other advisory-backed operations run detached from
// ctx cancellation. Only the advisory timeout bounds them.
func (s *Shell) ChooseBranch(ctx context.Context, branch domain.Branch) error {
	ctx = context.WithoutCancel(ctx)
	ctrl, gen, err := s.currentInterview()
	if err != nil {
		return err
	}
	return s.afterInterview(ctx, ctrl, gen, ctrl.ChooseBranch(ctx, branch))
}

func (s *Shell) Answer(ctx context.Context, a conversation.Answer) error {
	ctx = context.WithoutCancel(ctx)
	ctrl, gen, err := s.currentInterview()
	if err != nil {
		return err
	}
	return s.afterInterview(ctx, ctrl, gen, ctrl.Answer(ctx, a))
}

// CheckAnswer validates a against the current interview without recording it.
func (s *Shell) CheckAnswer(a conversation.Answer) error {
	ctrl, _, err := s.currentInterview()
	if err != nil {
		return err
	}
	return ctrl.Check(a)
}

func (s *Shell) afterInterview(ctx context.Context, ctrl *conversation.Controller, gen int64, err error) error {
	if err != nil {
		if ctrl.State() == conversation.StateFailed {
			s.fail(s.interviewGen(gen), err)
		}
		return err
	}
	if ctrl.State() != conversation.StateCompleted {
		return nil
	}

	advice := ctrl.Advice()
	if !s.transition(s.interviewGen(gen), StepResults, func() { s.advice = advice }) {
		return nil
	}
	if err := s.rec.InterviewCompleted(ctx, s.id, ctrl.Branch(), ctrl.Turns(), advice); err != nil {
		s.log.Error("failed to record interview", "error", err)
	}
	return nil
}

func (s *Shell) SetSpeed(speed domain.Speed) error {
	s.mu.Lock()
	ctrl, step := s.interview, s.step
	s.mu.Unlock()
	if ctrl == nil {
		return errStep(step)
	}
	return ctrl.SetSpeed(speed)
}

// SetAudio turns narration on or off. Turning it off resolves every pending
// playback at once.
func (s *Shell) SetAudio(enabled bool) {
	if enabled {
		s.speech.Enable()
	} else {
		s.speech.Disable()
	}
	s.publish(events.TypePlayback, map[string]any{"enabled": enabled})
}

// TurnPlayed is reported by the browser when a turn's audio ends.
func (s *Shell) TurnPlayed(turnID int) {
	s.speech.Finished(turnID)
}

// StartSimulation opens the simulation for one of the recommended careers.
func (s *Shell) StartSimulation(ctx context.Context, career string) error {
	ctx = context.WithoutCancel(ctx)
	s.mu.Lock()
	if s.step != StepResults {
		step := s.step
		s.mu.Unlock()
		return errStep(step)
	}
	if _, ok := s.advice.FindCareer(career); !ok {
		s.mu.Unlock()
		return domain.ErrUnknownCareer
	}
	gen := s.simGen.Add(1)
	sim := simulation.New(s.svc, career, &simulationObserver{s: s, gen: gen})
	s.sim = sim
	s.step = StepSimulation
	s.mu.Unlock()

	s.publish(events.TypeStep, StepSimulation)
	return s.afterSimulation(ctx, sim, gen, sim.Load(ctx))
}

func (s *Shell) currentSimulation() (*simulation.Controller, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepSimulation || s.sim == nil {
		return nil, 0, errStep(s.step)
	}
	return s.sim, s.simGen.Load(), nil
}

// RestartSimulation fetches a fresh plan for the same career.
func (s *Shell) RestartSimulation(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	sim, gen, err := s.currentSimulation()
	if err != nil {
		return err
	}
	return s.afterSimulation(ctx, sim, gen, sim.Load(ctx))
}

func (s *Shell) BeginSimulation() error {
	sim, _, err := s.currentSimulation()
	if err != nil {
		return err
	}
	return sim.Begin()
}

func (s *Shell) SetSimulationDraft(text string) error {
	sim, _, err := s.currentSimulation()
	if err != nil {
		return err
	}
	return sim.SetDraft(text)
}

// SubmitTask records answer for the current task and moves on.
func (s *Shell) SubmitTask(ctx context.Context, answer string) error {
	ctx = context.WithoutCancel(ctx)
	sim, gen, err := s.currentSimulation()
	if err != nil {
		return err
	}
	if err := sim.SetDraft(answer); err != nil {
		return err
	}
	return s.afterSimulation(ctx, sim, gen, sim.Advance(ctx))
}

func (s *Shell) afterSimulation(ctx context.Context, sim *simulation.Controller, gen int64, err error) error {
	if err != nil {
		if sim.State() == simulation.StateFailed {
			s.fail(s.simulationGen(gen), err)
		}
		return err
	}
	if sim.State() != simulation.StateReport || s.simGen.Load() != gen {
		return nil
	}
	if err := s.rec.SimulationCompleted(ctx, s.id, sim.Career(), sim.Answers(), sim.Report()); err != nil {
		s.log.Error("failed to record simulation", "career", sim.Career(), "error", err)
	}
	return nil
}

// BackToResults leaves the simulation. A simulation request still in flight
// is abandoned.
func (s *Shell) BackToResults() error {
	s.mu.Lock()
	if s.step != StepSimulation {
		step := s.step
		s.mu.Unlock()
		return errStep(step)
	}
	s.simGen.Add(1)
	s.sim = nil
	s.step = StepResults
	s.mu.Unlock()

	s.publish(events.TypeStep, StepResults)
	return nil
}

// Reset stops audio and discards everything back to the landing step. Turn
// ids keep increasing across resets.
func (s *Shell) Reset() {
	s.speech.StopAll()

	s.mu.Lock()
	s.gen.Add(1)
	s.simGen.Add(1)
	s.interview = nil
	s.advice = nil
	s.sim = nil
	s.errMsg = ""
	s.step = StepLanding
	s.mu.Unlock()

	s.publish(events.TypeStep, StepLanding)
}

// Close releases the session's audio when it is evicted.
func (s *Shell) Close() {
	s.gen.Add(1)
	s.simGen.Add(1)
	s.speech.StopAll()
}

func (s *Shell) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Shell) Advice() *domain.AdviceResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advice
}

// WaitSpeech blocks until background narration has settled.
func (s *Shell) WaitSpeech() {
	s.speech.Wait()
}

type View struct {
	ID           string               `json:"id"`
	Step         Step                 `json:"step"`
	Interview    *conversation.View   `json:"interview,omitempty"`
	Advice       *domain.AdviceResult `json:"advice,omitempty"`
	Simulation   *simulation.View     `json:"simulation,omitempty"`
	Error        string               `json:"error,omitempty"`
	AudioEnabled bool                 `json:"audioEnabled"`
}

func (s *Shell) Snapshot() View {
	s.mu.Lock()
	v := View{
		ID:     s.id.String(),
		Step:   s.step,
		Advice: s.advice,
		Error:  s.errMsg,
	}
	ctrl, sim := s.interview, s.sim
	s.mu.Unlock()

	if ctrl != nil {
		iv := ctrl.Snapshot()
		v.Interview = &iv
	}
	if sim != nil {
		sv := sim.Snapshot()
		v.Simulation = &sv
	}
	v.AudioEnabled = s.speech.Enabled()
	return v
}
