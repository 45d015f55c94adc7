package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"renthub-backend/internal/logger"
)

// Envelope is the JSON body of every published domain event.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes domain events to a durable RabbitMQ queue.
type AMQPPublisher struct {
	conn  *amqp.Connection
	mu    sync.Mutex
	ch    channel
	queue string
}

// NewAMQPPublisher dials url and declares queue as durable.
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	logger.ExternalServiceCall("amqp", "Dial", "queue", queue)
	conn, err := amqp.Dial(url)
	if err != nil {
		logger.ExternalServiceResult("amqp", "Dial", err)
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	logger.ExternalServiceResult("amqp", "Dial", nil, "queue", queue)
	return &AMQPPublisher{conn: conn, ch: ch, queue: queue}, nil
}

func newPublisherWithChannel(ch channel, queue string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, queue: queue}
}

// Publish sends a persistent message carrying payload wrapped in an Envelope.
func (p *AMQPPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	env := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", eventType, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Type:         eventType,
		Timestamp:    env.OccurredAt,
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		logger.ExternalServiceResult("amqp", "Publish", err, "event", eventType)
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	logger.Debug("Event published", "event", eventType, "id", env.ID)
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	logger.Debug("Event dropped, no broker configured", "event", eventType)
	return nil
}

func (NoopPublisher) Close() error { return nil }
