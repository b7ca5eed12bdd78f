package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp091.Publishing
	keys      []string
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublishExpenseEvent(t *testing.T) {
	ch := &fakeChannel{}
	c := &Client{channel: ch, exchangeName: "expenses", queueName: "expense_events"}

	msg := NewExpenseEventMessage("added")
	msg.ID = "abc"
	msg.AmountCents = 450
	require.NoError(t, c.PublishExpenseEvent(context.Background(), msg))

	require.Len(t, ch.published, 1)
	pub := ch.published[0]
	assert.Equal(t, "expense_events", ch.keys[0])
	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, amqp091.Persistent, pub.DeliveryMode)
	assert.Equal(t, "added", pub.Type)

	decoded, err := ExpenseEventMessageFromJSON(pub.Body)
	require.NoError(t, err)
	assert.Equal(t, "abc", decoded.ID)
	assert.Equal(t, int64(450), decoded.AmountCents)

	require.NoError(t, c.Close())
	assert.True(t, ch.closed)
}

func TestPublishExpenseEventErrors(t *testing.T) {
	t.Run("channel failure", func(t *testing.T) {
		boom := errors.New("channel closed")
		c := &Client{channel: &fakeChannel{err: boom}}
		err := c.PublishExpenseEvent(context.Background(), NewExpenseEventMessage("added"))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := &Client{channel: &fakeChannel{}}
		err := c.PublishExpenseEvent(ctx, NewExpenseEventMessage("added"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("not connected", func(t *testing.T) {
		var c *Client
		assert.Error(t, c.PublishExpenseEvent(context.Background(), NewExpenseEventMessage("added")))
	})
}

func TestExpenseEventMessageJSON(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &ExpenseEventMessage{Kind: "cleared", Count: 0, Timestamp: ts}

	data, err := msg.ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"id"`)

	parsed, err := ExpenseEventMessageFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "cleared", parsed.Kind)
	assert.True(t, parsed.Timestamp.Equal(ts))

	_, err = ExpenseEventMessageFromJSON([]byte(`{"count":"many"}`))
	assert.Error(t, err)
}
