// Package conversation drives the adaptive interview: it owns the turn
// transcript, the chosen branch and the single outstanding advisory request.
package conversation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

type State string

const (
	StateAwaitingBranchChoice State = "awaiting-branch-choice"
	StateInterviewing         State = "interviewing"
	StateAwaitingNextQuestion State = "awaiting-next-question"
	StateConcluding           State = "concluding"
	StateCompleted            State = "completed"
	StateFailed               State = "failed"
)

// Advisor is the part of the advisory service the interview needs.
type Advisor interface {
	NextQuestion(ctx context.Context, turns []domain.Turn, branch domain.Branch, speed domain.Speed) (*domain.QuestionOutcome, error)
	Advice(ctx context.Context, turns []domain.Turn, branch domain.Branch) (*domain.AdviceResult, error)
}

// Narrator renders assistant turns as speech. Announce must not block.
type Narrator interface {
	Announce(turnID int, text string, filler bool)
}

// Observer is notified after the transcript or the state changes. It is
// called without the controller's lock held.
type Observer interface {
	TurnAppended(turn domain.Turn)
	StateChanged(state State)
}

// Sequence hands out turn ids. Sharing one Sequence across controllers keeps
// ids unique for the lifetime of a browser session.
type Sequence struct {
	n atomic.Int64
}

func (s *Sequence) Next() int {
	return int(s.n.Add(1) - 1)
}

// Answer is one respondent reply: a selected option, or free text with
// optional images.
type Answer struct {
	Option string
	Text   string
	Images []domain.Image
}

type Option func(*Controller)

func WithNarrator(n Narrator) Option {
	return func(c *Controller) { c.narrator = n }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

func WithSequence(seq *Sequence) Option {
	return func(c *Controller) { c.seq = seq }
}

// WithPicker replaces the random choice of encouragement phrase.
func WithPicker(pick func(n int) int) Option {
	return func(c *Controller) { c.pick = pick }
}

type Controller struct {
	svc      Advisor
	narrator Narrator
	observer Observer
	seq      *Sequence
	pick     func(n int) int

	mu      sync.Mutex
	state   State
	branch  domain.Branch
	speed   domain.Speed
	turns   []domain.Turn
	options []string
	advice  *domain.AdviceResult
	err     error
}

// New starts an interview by appending the opening prompt.
func New(svc Advisor, opts ...Option) *Controller {
	c := &Controller{
		svc:   svc,
		state: StateAwaitingBranchChoice,
		speed: domain.SpeedFast,
		pick:  rand.IntN,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.seq == nil {
		c.seq = &Sequence{}
	}

	c.mu.Lock()
	opening := c.appendLocked(domain.SpeakerAssistant, domain.TextContent(OpeningPrompt), false)
	c.mu.Unlock()
	c.publish(opening)
	return c
}

func (c *Controller) appendLocked(speaker domain.Speaker, content domain.Content, filler bool) domain.Turn {
	t := domain.Turn{
		ID:       c.seq.Next(),
		Speaker:  speaker,
		Content:  content,
		IsFiller: filler,
	}
	if speaker == domain.SpeakerAssistant {
		t.Playback = domain.PlaybackPending
	}
	c.turns = append(c.turns, t)
	return t
}

// publish reports new turns to the observer and hands assistant turns to the narrator.
func (c *Controller) publish(turns ...domain.Turn) {
	for _, t := range turns {
		if c.observer != nil {
			c.observer.TurnAppended(t)
		}
		if t.Speaker == domain.SpeakerAssistant && c.narrator != nil {
			c.narrator.Announce(t.ID, t.Content.Text, t.IsFiller)
		}
	}
}

func (c *Controller) notifyState(state State) {
	if c.observer != nil {
		c.observer.StateChanged(state)
	}
}

// checkStateLocked returns why an operation expecting want cannot run.
func (c *Controller) checkStateLocked(want State) error {
	switch c.state {
	case want:
		return nil
	case StateFailed:
		return domain.ErrSessionFailed
	case StateAwaitingNextQuestion, StateConcluding:
		return domain.ErrRequestInFlight
	default:
		return fmt.Errorf("%w: interview is %s", domain.ErrInvalidState, c.state)
	}
}

// ChooseBranch fixes the interview branch and requests the first question.
func (c *Controller) ChooseBranch(ctx context.Context, branch domain.Branch) error {
	choice, ok := choiceFor(branch)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrInvalidBranch, branch)
	}

	c.mu.Lock()
	if err := c.checkStateLocked(StateAwaitingBranchChoice); err != nil {
		c.mu.Unlock()
		return err
	}
	c.branch = branch
	t := c.appendLocked(domain.SpeakerRespondent, domain.TextContent(choice.Text), false)
	history := c.suspendLocked()
	c.mu.Unlock()

	c.publish(t)
	c.notifyState(StateAwaitingNextQuestion)
	return c.requestNext(ctx, history, branch)
}

// Answer records the respondent's reply plus an encouragement filler and
// requests the next question.
func (c *Controller) Answer(ctx context.Context, a Answer) error {
	c.mu.Lock()
	if err := c.checkStateLocked(StateInterviewing); err != nil {
		c.mu.Unlock()
		return err
	}
	content, err := c.contentLocked(a)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	reply := c.appendLocked(domain.SpeakerRespondent, content, false)
	filler := c.appendLocked(domain.SpeakerAssistant, domain.TextContent(Encouragements[c.pick(len(Encouragements))]), true)
	history := c.suspendLocked()
	branch := c.branch
	c.mu.Unlock()

	c.publish(reply, filler)
	c.notifyState(StateAwaitingNextQuestion)
	return c.requestNext(ctx, history, branch)
}

// Check reports whether Answer would accept a right now, without recording it.
func (c *Controller) Check(a Answer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkStateLocked(StateInterviewing); err != nil {
		return err
	}
	_, err := c.contentLocked(a)
	return err
}

func (c *Controller) contentLocked(a Answer) (domain.Content, error) {
	if a.Option != "" {
		if !slices.Contains(c.options, a.Option) {
			return domain.Content{}, fmt.Errorf("%w: %q", domain.ErrInvalidOption, a.Option)
		}
		return domain.TextContent(a.Option), nil
	}
	text := strings.TrimSpace(a.Text)
	if text == "" && len(a.Images) == 0 {
		return domain.Content{}, domain.ErrEmptyAnswer
	}
	return domain.TextWithImages(text, a.Images), nil
}

// suspendLocked clears the offered options, enters the awaiting state and
// returns a copy of the history to send.
func (c *Controller) suspendLocked() []domain.Turn {
	c.state = StateAwaitingNextQuestion
	c.options = nil
	return slices.Clone(c.turns)
}

func (c *Controller) requestNext(ctx context.Context, history []domain.Turn, branch domain.Branch) error {
	c.mu.Lock()
	speed := c.speed
	c.mu.Unlock()

	outcome, err := c.svc.NextQuestion(ctx, history, branch, speed)
	if err != nil {
		return c.fail(fmt.Errorf("failed to get next question: %w", err))
	}

	c.mu.Lock()
	if !outcome.Done {
		q := c.appendLocked(domain.SpeakerAssistant, domain.TextContent(outcome.Question), false)
		c.options = slices.Clone(outcome.Options)
		if c.options == nil {
			c.options = []string{}
		}
		c.state = StateInterviewing
		c.mu.Unlock()

		c.publish(q)
		c.notifyState(StateInterviewing)
		return nil
	}

	closing := c.appendLocked(domain.SpeakerAssistant, domain.TextContent(ClosingNotice), false)
	c.state = StateConcluding
	history = slices.Clone(c.turns)
	c.mu.Unlock()

	c.publish(closing)
	c.notifyState(StateConcluding)
	return c.conclude(ctx, history, branch)
}

func (c *Controller) conclude(ctx context.Context, history []domain.Turn, branch domain.Branch) error {
	advice, err := c.svc.Advice(ctx, history, branch)
	if err != nil {
		return c.fail(fmt.Errorf("failed to get career advice: %w", err))
	}

	c.mu.Lock()
	c.advice = advice
	c.state = StateCompleted
	c.mu.Unlock()

	c.notifyState(StateCompleted)
	return nil
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.state = StateFailed
	c.options = nil
	c.err = err
	c.mu.Unlock()

	c.notifyState(StateFailed)
	return err
}

// SetSpeed sets the speed preference used for subsequent next-question requests.
func (c *Controller) SetSpeed(speed domain.Speed) error {
	if !speed.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSpeed, speed)
	}
	c.mu.Lock()
	c.speed = speed
	c.mu.Unlock()
	return nil
}

// SetPlayback updates the playback status of an assistant turn. Unknown ids
// are ignored.
func (c *Controller) SetPlayback(turnID int, status domain.PlaybackStatus) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, found := slices.BinarySearchFunc(c.turns, turnID, compareID)
	if !found || c.turns[i].Speaker != domain.SpeakerAssistant {
		return false
	}
	c.turns[i].Playback = status
	return true
}

// ResolvePlayback marks every pending or playing turn as played.
func (c *Controller) ResolvePlayback() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.turns {
		switch c.turns[i].Playback {
		case domain.PlaybackPending, domain.PlaybackPlaying:
			c.turns[i].Playback = domain.PlaybackPlayed
		}
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Branch() domain.Branch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.branch
}

// Turn looks up a turn by id.
func (c *Controller) Turn(id int) (domain.Turn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, found := slices.BinarySearchFunc(c.turns, id, compareID)
	if !found {
		return domain.Turn{}, false
	}
	return c.turns[i], true
}

func compareID(t domain.Turn, id int) int { return t.ID - id }

func (c *Controller) Turns() []domain.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.turns)
}

// Options returns the choices currently offered to the respondent. It is
// empty while a request is outstanding.
func (c *Controller) Options() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.optionsLocked()
}

func (c *Controller) optionsLocked() []string {
	switch c.state {
	case StateAwaitingBranchChoice:
		opts := make([]string, len(BranchChoices))
		for i, ch := range BranchChoices {
			opts[i] = ch.Text
		}
		return opts
	case StateInterviewing:
		return slices.Clone(c.options)
	default:
		return []string{}
	}
}

func (c *Controller) Advice() *domain.AdviceResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advice
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// View is a consistent snapshot of the interview.
type View struct {
	State   State          `json:"state"`
	Branch  domain.Branch  `json:"branch,omitempty"`
	Speed   domain.Speed   `json:"speed"`
	Turns   []domain.Turn  `json:"turns"`
	Options []string       `json:"options"`
	Choices []BranchChoice `json:"choices,omitempty"`
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		State:   c.state,
		Branch:  c.branch,
		Speed:   c.speed,
		Turns:   slices.Clone(c.turns),
		Options: c.optionsLocked(),
	}
	if c.state == StateAwaitingBranchChoice {
		v.Choices = BranchChoices
	}
	return v
}
