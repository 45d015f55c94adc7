package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	key    string
	msgs   []amqp.Publishing
	err    error
	closed bool
}

func (c *recordingChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.key = key
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &recordingChannel{}
	p := newPublisherWithChannel(ch, "renthub.events")

	err := p.Publish(context.Background(), "rental.settled", map[string]any{"rental_id": 7, "amount_cents": 100000})
	require.NoError(t, err)
	require.Len(t, ch.msgs, 1)
	assert.Equal(t, "renthub.events", ch.key)

	msg := ch.msgs[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "rental.settled", msg.Type)
	assert.NotEmpty(t, msg.MessageId)

	var env struct {
		ID      string         `json:"id"`
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Body, &env))
	assert.Equal(t, msg.MessageId, env.ID)
	assert.Equal(t, "rental.settled", env.Type)
	assert.Equal(t, float64(100000), env.Payload["amount_cents"])
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &recordingChannel{err: errors.New("channel closed")}
	p := newPublisherWithChannel(ch, "renthub.events")

	err := p.Publish(context.Background(), "withdrawal.requested", nil)
	assert.ErrorContains(t, err, "withdrawal.requested")
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := &recordingChannel{}
	p := newPublisherWithChannel(ch, "q")
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), "rental.created", struct{}{}))
}
