package shell

import (
	"fmt"

	"github.com/muhammadolammi/careeradvisor/internal/advisor"
	"github.com/muhammadolammi/careeradvisor/internal/conversation"
	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/events"
	"github.com/muhammadolammi/careeradvisor/internal/simulation"
)

func errStep(step Step) error {
	return fmt.Errorf("%w: session is at %s", domain.ErrInvalidState, step)
}

type playbackUpdate struct {
	TurnID int                   `json:"turnId"`
	Status domain.PlaybackStatus `json:"status"`
}

type audioPayload struct {
	TurnID   int    `json:"turnId"`
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

func (s *Shell) currentTurns() *conversation.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interview
}

// SetPlayback implements speech.Sink. Turns of a discarded interview are ignored.
func (s *Shell) SetPlayback(turnID int, status domain.PlaybackStatus) {
	ctrl := s.currentTurns()
	if ctrl == nil || !ctrl.SetPlayback(turnID, status) {
		return
	}
	s.publish(events.TypePlayback, playbackUpdate{TurnID: turnID, Status: status})
}

func (s *Shell) PlayAudio(turnID int, audio *advisor.Audio) {
	ctrl := s.currentTurns()
	if ctrl == nil {
		return
	}
	if _, ok := ctrl.Turn(turnID); !ok {
		return
	}
	s.publish(events.TypeAudio, audioPayload{TurnID: turnID, MIMEType: audio.MIMEType, Data: audio.Data})
}

func (s *Shell) ResolveAll() {
	ctrl := s.currentTurns()
	if ctrl == nil {
		return
	}
	ctrl.ResolvePlayback()
	s.publish(events.TypePlayback, map[string]any{"resolved": true})
}

// narrator forwards announcements of the current interview to the speech manager.
type narrator struct {
	s   *Shell
	gen int64
}

func (n *narrator) Announce(turnID int, text string, filler bool) {
	if n.s.gen.Load() != n.gen {
		return
	}
	n.s.speech.Announce(turnID, text, filler)
}

type interviewObserver struct {
	s   *Shell
	gen int64
}

func (o *interviewObserver) TurnAppended(turn domain.Turn) {
	if o.s.gen.Load() != o.gen {
		return
	}
	o.s.publish(events.TypeTurn, turn)
}

func (o *interviewObserver) StateChanged(state conversation.State) {
	if o.s.gen.Load() != o.gen {
		return
	}
	o.s.publish(events.TypeInterview, state)
	if state == conversation.StateConcluding {
		o.s.transition(o.s.interviewGen(o.gen), StepLoading, nil)
	}
}

type simulationObserver struct {
	s   *Shell
	gen int64
}

func (o *simulationObserver) SimulationChanged(state simulation.State) {
	if o.s.simGen.Load() != o.gen {
		return
	}
	o.s.publish(events.TypeSimulation, state)
}
