package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	closed    bool
	closes    int
	published []string
}

func (c *fakeChannel) ExchangeDeclare(string, string, bool, bool, bool, bool, amqp.Table) error {
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, _ amqp.Publishing) error {
	if c.closed {
		return amqp.ErrClosed
	}
	c.published = append(c.published, key)
	return nil
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) Close() error {
	c.closes++
	c.closed = true
	return nil
}

type fakeConnection struct {
	ch     *fakeChannel
	closes int
}

func (c *fakeConnection) Channel() (channel, error) { return c.ch, nil }

func (c *fakeConnection) Close() error {
	c.closes++
	return nil
}

type fakeBroker struct {
	dials int
	fail  bool
	conns []*fakeConnection
}

func (b *fakeBroker) dial(string) (connection, error) {
	b.dials++
	if b.fail {
		return nil, errors.New("connection refused")
	}
	conn := &fakeConnection{ch: &fakeChannel{}}
	b.conns = append(b.conns, conn)
	return conn, nil
}

func newTestPublisher(t *testing.T, broker *fakeBroker) *RabbitMQ {
	t.Helper()
	r := newRabbitMQ("amqp://test", "road_eye.events", zap.NewNop(), broker.dial)
	r.backoff = func(int) time.Duration {
		t.Fatal("publish path must not back off")
		return 0
	}
	require.NoError(t, r.connect(context.Background(), 1))
	return r
}

func TestPublishReconnectsAndReleasesClosedChannel(t *testing.T) {
	broker := &fakeBroker{}
	r := newTestPublisher(t, broker)
	first := broker.conns[0]
	first.ch.closed = true

	require.NoError(t, r.Publish(context.Background(), "report.created", []byte(`{}`)))

	assert.Equal(t, 2, broker.dials)
	assert.Equal(t, 1, first.ch.closes)
	assert.Equal(t, 1, first.closes)
	assert.Equal(t, []string{"report.created"}, broker.conns[1].ch.published)
}

func TestPublishMakesSingleReconnectAttempt(t *testing.T) {
	broker := &fakeBroker{}
	r := newTestPublisher(t, broker)
	broker.conns[0].ch.closed = true
	broker.fail = true

	err := r.Publish(context.Background(), "report.status_changed", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconnect to rabbitmq")
	assert.Equal(t, 2, broker.dials)
	assert.Equal(t, 1, broker.conns[0].closes)

	broker.fail = false
	require.NoError(t, r.Publish(context.Background(), "report.status_changed", []byte(`{}`)))
	assert.Equal(t, 3, broker.dials)
}

func TestConnectRetriesWithBackoff(t *testing.T) {
	broker := &fakeBroker{fail: true}
	r := newRabbitMQ("amqp://test", "road_eye.events", zap.NewNop(), broker.dial)
	var waits []int
	r.backoff = func(attempt int) time.Duration {
		waits = append(waits, attempt)
		return time.Millisecond
	}

	err := r.connect(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after retries")
	assert.Equal(t, 3, broker.dials)
	assert.Equal(t, []int{1, 2}, waits)
}

func TestCloseIsSafeOnNil(t *testing.T) {
	var r *RabbitMQ
	assert.NoError(t, r.Close())
}
