package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_PublishReminder(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "payday.events"}

	end := time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC)
	err := p.PublishReminder(context.Background(), PaydayReminder{
		HouseholdID: "hh-1",
		PayCycleID:  "pc-1",
		CycleName:   "23 Jan - 24 Feb 2026",
		EndDate:     end,
		When:        WhenTomorrow,
	})
	require.NoError(t, err)
	require.Len(t, ch.sent, 1)

	sent := ch.sent[0]
	assert.Equal(t, "payday.events", sent.exchange)
	assert.Equal(t, RoutingPaydayReminder, sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, amqp.Persistent, sent.msg.DeliveryMode)
	assert.NotEmpty(t, sent.msg.MessageId)

	decoded, err := PaydayReminderFromJSON(sent.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "pc-1", decoded.PayCycleID)
	assert.Equal(t, WhenTomorrow, decoded.When)
	assert.True(t, decoded.EndDate.Equal(end))
}

func TestAMQPPublisher_PublishSwitched(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "payday.events"}

	require.NoError(t, p.PublishSwitched(context.Background(), CycleSwitched{
		HouseholdID:      "hh-1",
		CompletedCycleID: "pc-1",
		ActiveCycleID:    "pc-2",
		Promoted:         true,
	}))
	require.Len(t, ch.sent, 1)
	assert.Equal(t, RoutingCycleSwitched, ch.sent[0].key)
	assert.Contains(t, string(ch.sent[0].msg.Body), `"promoted":true`)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &AMQPPublisher{ch: ch, exchange: "payday.events"}

	err := p.PublishReminder(context.Background(), PaydayReminder{HouseholdID: "hh-1"})
	assert.ErrorContains(t, err, "channel closed")
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch}
	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = LogPublisher{}
	assert.NoError(t, p.PublishReminder(context.Background(), PaydayReminder{HouseholdID: "hh-1"}))
	assert.NoError(t, p.PublishSwitched(context.Background(), CycleSwitched{HouseholdID: "hh-1"}))
	assert.NoError(t, p.Close())
}

func TestOpenWithoutURL(t *testing.T) {
	p, err := Open("", "payday.events", "payday.reminders")
	assert.NoError(t, err)
	assert.IsType(t, LogPublisher{}, p)
}
