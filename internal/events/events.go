// Package events carries session updates from the shell to whoever is
// listening: the browser websocket hub and the session_updates exchange.
package events

import (
	"context"
	"errors"
	"time"
)

type Type string

const (
	TypeStep       Type = "step"
	TypeTurn       Type = "turn"
	TypeInterview  Type = "interview"
	TypePlayback   Type = "playback"
	TypeAudio      Type = "audio"
	TypeSimulation Type = "simulation"
	TypeReport     Type = "report"
	TypeError      Type = "error"
)

type Event struct {
	Type      Type   `json:"type"`
	SessionID string `json:"sessionId"`
	Ts        int64  `json:"ts"`
	Data      any    `json:"data,omitempty"`
}

func New(sessionID string, typ Type, data any) Event {
	return Event{
		Type:      typ,
		SessionID: sessionID,
		Ts:        time.Now().UnixMilli(),
		Data:      data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
