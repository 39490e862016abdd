package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

const SessionExchange = "session_updates"

// AMQP publishes events to the session_updates topic exchange with routing
// key "session.<id>".
type AMQP struct {
	conn *amqp.Connection
}

// NewAMQP declares the exchange and returns a publisher on conn.
func NewAMQP(conn *amqp.Connection) (*AMQP, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(SessionExchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare %s exchange: %w", SessionExchange, err)
	}
	return &AMQP{conn: conn}, nil
}

func (p *AMQP) Publish(ctx context.Context, ev Event) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return ch.Publish(
		SessionExchange,
		RoutingKey(ev.SessionID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func RoutingKey(sessionID string) string {
	return fmt.Sprintf("session.%s", sessionID)
}
