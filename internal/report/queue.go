package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const QueueName = "report_submissions"

// Job is one queued webhook delivery.
type Job struct {
	SubmissionID uuid.UUID       `json:"submission_id"`
	SessionID    uuid.UUID       `json:"session_id"`
	Payload      json.RawMessage `json:"payload"`
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// AMQPQueue publishes jobs to the durable report_submissions queue.
type AMQPQueue struct {
	conn *amqp.Connection
}

func NewAMQPQueue(conn *amqp.Connection) (*AMQPQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()
	if err := DeclareQueue(ch); err != nil {
		return nil, err
	}
	return &AMQPQueue{conn: conn}, nil
}

func DeclareQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	return nil
}

func (q *AMQPQueue) Enqueue(ctx context.Context, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	ch, err := q.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish("", QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}
