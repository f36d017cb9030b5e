// Package events publishes reservation lifecycle events to RabbitMQ for
// downstream consumers (analytics, dashboards). Publishing is best-effort:
// failures are logged by callers and never fail the originating operation.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const queueName = "reservation.events"

type EventType string

const (
	EventReservationBooked    EventType = "reservation.booked"
	EventReservationConfirmed EventType = "reservation.confirmed"
	EventReservationReturned  EventType = "reservation.returned"
	EventReservationCancelled EventType = "reservation.cancelled"
)

// ReservationEvent carries enough information for consumers to react without
// querying the primary database.
type ReservationEvent struct {
	EventID       string    `json:"event_id"`
	Type          EventType `json:"type"`
	OrgID         int64     `json:"org_id"`
	ReservationID int64     `json:"reservation_id"`
	ReservationNo int64     `json:"reservation_no"`
	TotalCents    int64     `json:"total_cents"`
	FeeCents      int64     `json:"fee_cents,omitempty"`
	OccurredAt    string    `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
	Close() error
}

type amqpPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher connects to the broker and declares the durable event
// queue so messages survive broker restarts.
func NewAMQPPublisher(url string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &amqpPublisher{conn: conn, ch: ch}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *amqpPublisher) Close() error {
	_ = p.ch.Close()
	return p.conn.Close()
}
