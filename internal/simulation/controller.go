// Package simulation runs the fixed-length career simulation: fetch a plan,
// collect one answer per task, then request the evaluation report.
package simulation

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

type State string

const (
	StateLoadingPlan    State = "loading-plan"
	StateIntroduction   State = "introduction"
	StateAnsweringTasks State = "answering-tasks"
	StateLoadingReport  State = "loading-report"
	StateReport         State = "report"
	StateFailed         State = "failed"
)

type Advisor interface {
	SimulationPlan(ctx context.Context, career string) (*domain.SimulationPlan, error)
	SimulationReport(ctx context.Context, career string, answers []domain.UserAnswer) (*domain.SimulationReport, error)
}

// Observer is notified of state changes without the controller's lock held.
type Observer interface {
	SimulationChanged(state State)
}

type Controller struct {
	svc      Advisor
	career   string
	observer Observer

	mu       sync.Mutex
	state    State
	inFlight bool
	plan     *domain.SimulationPlan
	index    int
	draft    string
	answers  []domain.UserAnswer
	report   *domain.SimulationReport
	err      error
}

// New returns a controller for career in the loading-plan state. Call Load
// to fetch the plan.
func New(svc Advisor, career string, observer Observer) *Controller {
	return &Controller{
		svc:      svc,
		career:   career,
		observer: observer,
		state:    StateLoadingPlan,
		answers:  []domain.UserAnswer{},
	}
}

func (c *Controller) notify(state State) {
	if c.observer != nil {
		c.observer.SimulationChanged(state)
	}
}

// Load fetches a fresh plan and discards any previous answers, index and
// draft. It is also the restart operation.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrRequestInFlight
	}
	c.inFlight = true
	c.state = StateLoadingPlan
	c.plan = nil
	c.index = 0
	c.draft = ""
	c.answers = []domain.UserAnswer{}
	c.report = nil
	c.err = nil
	c.mu.Unlock()
	c.notify(StateLoadingPlan)

	plan, err := c.svc.SimulationPlan(ctx, c.career)
	if err == nil {
		err = plan.Validate()
	}
	if err != nil {
		return c.fail(fmt.Errorf("failed to load simulation for %s: %w", c.career, err))
	}

	c.mu.Lock()
	c.inFlight = false
	c.plan = plan
	c.state = StateIntroduction
	c.mu.Unlock()
	c.notify(StateIntroduction)
	return nil
}

func (c *Controller) Begin() error {
	c.mu.Lock()
	if err := c.checkLocked(StateIntroduction); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = StateAnsweringTasks
	c.mu.Unlock()
	c.notify(StateAnsweringTasks)
	return nil
}

func (c *Controller) checkLocked(want State) error {
	switch {
	case c.state == want:
		return nil
	case c.state == StateFailed:
		return domain.ErrSessionFailed
	case c.inFlight:
		return domain.ErrRequestInFlight
	default:
		return fmt.Errorf("%w: simulation is %s", domain.ErrInvalidState, c.state)
	}
}

// SetDraft replaces the answer being composed for the current task.
func (c *Controller) SetDraft(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked(StateAnsweringTasks); err != nil {
		return err
	}
	c.draft = text
	return nil
}

// Advance records the draft as the answer to the current task. After the
// last task the collected answers are submitted for evaluation.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkLocked(StateAnsweringTasks); err != nil {
		c.mu.Unlock()
		return err
	}
	task := c.plan.Tasks[c.index]
	answer := c.draft
	if task.Kind == domain.TaskTextInput {
		answer = strings.TrimSpace(answer)
	}
	if err := task.CheckAnswer(answer); err != nil {
		c.mu.Unlock()
		return err
	}

	c.answers = append(c.answers, domain.UserAnswer{TaskDescription: task.Description, Answer: answer})
	c.draft = ""
	if c.index < len(c.plan.Tasks)-1 {
		c.index++
		c.mu.Unlock()
		c.notify(StateAnsweringTasks)
		return nil
	}

	c.state = StateLoadingReport
	c.inFlight = true
	answers := slices.Clone(c.answers)
	c.mu.Unlock()
	c.notify(StateLoadingReport)

	report, err := c.svc.SimulationReport(ctx, c.career, answers)
	if err != nil {
		return c.fail(fmt.Errorf("failed to evaluate simulation: %w", err))
	}

	c.mu.Lock()
	c.inFlight = false
	c.report = report
	c.state = StateReport
	c.mu.Unlock()
	c.notify(StateReport)
	return nil
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.inFlight = false
	c.state = StateFailed
	c.err = err
	c.mu.Unlock()
	c.notify(StateFailed)
	return err
}

func (c *Controller) Career() string { return c.career }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Plan() *domain.SimulationPlan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan
}

func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Controller) Answers() []domain.UserAnswer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.answers)
}

func (c *Controller) Report() *domain.SimulationReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

type View struct {
	Career  string                   `json:"career"`
	State   State                    `json:"state"`
	Plan    *domain.SimulationPlan   `json:"plan,omitempty"`
	Index   int                      `json:"index"`
	Draft   string                   `json:"draft"`
	Answers []domain.UserAnswer      `json:"answers"`
	Report  *domain.SimulationReport `json:"report,omitempty"`
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Career:  c.career,
		State:   c.state,
		Plan:    c.plan,
		Index:   c.index,
		Draft:   c.draft,
		Answers: slices.Clone(c.answers),
		Report:  c.report,
	}
}
