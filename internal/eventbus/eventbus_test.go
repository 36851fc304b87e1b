package eventbus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/babylonchain/sqs-events-service/internal/config"
)

type fakeConnection struct {
	closed bool
}

func (c *fakeConnection) IsClosed() bool { return c.closed }
func (c *fakeConnection) Close() error {
	c.closed = true
	return nil
}

type publishCall struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	calls  []publishCall
	err    error
	closed bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.calls = append(c.calls, publishCall{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

// fakeBroker hands out a fresh connection and channel on every dial.
type fakeBroker struct {
	conns    []*fakeConnection
	channels []*fakeChannel
	dialErr  error
}

func (b *fakeBroker) dial() (amqpConnection, amqpChannel, error) {
	if b.dialErr != nil {
		return nil, nil, b.dialErr
	}
	conn, ch := &fakeConnection{}, &fakeChannel{}
	b.conns = append(b.conns, conn)
	b.channels = append(b.channels, ch)
	return conn, ch, nil
}

func (b *fakeBroker) lastChannel() *fakeChannel {
	return b.channels[len(b.channels)-1]
}

func TestRabbitMQPublisherFireEvent(t *testing.T) {
	broker := &fakeBroker{}
	p := newRabbitMQPublisher(broker.dial, "salt-events")

	err := p.FireEvent(context.Background(), "salt/engine/sqs", map[string]interface{}{"message": "hello"})
	require.NoError(t, err)

	ch := broker.lastChannel()
	require.Len(t, ch.calls, 1)
	call := ch.calls[0]
	assert.Equal(t, "salt-events", call.exchange)
	assert.Equal(t, "salt/engine/sqs", call.key)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)

	var event Event
	require.NoError(t, json.Unmarshal(call.msg.Body, &event))
	assert.Equal(t, call.msg.MessageId, event.ID)
	assert.Equal(t, "salt/engine/sqs", event.Tag)
	assert.Equal(t, map[string]interface{}{"message": "hello"}, event.Data)
}

func TestRabbitMQPublisherReconnectsAfterConnectionLoss(t *testing.T) {
	broker := &fakeBroker{}
	p := newRabbitMQPublisher(broker.dial, "salt-events")
	data := map[string]interface{}{"message": "x"}

	require.NoError(t, p.FireEvent(context.Background(), "events", data))
	require.Len(t, broker.conns, 1)

	// Broker restart.
	broker.conns[0].closed = true

	require.NoError(t, p.FireEvent(context.Background(), "events", data))
	require.Len(t, broker.conns, 2)
	assert.True(t, broker.channels[0].closed)
	assert.Len(t, broker.lastChannel().calls, 1)
}

func TestRabbitMQPublisherReconnectsAfterPublishError(t *testing.T) {
	broker := &fakeBroker{}
	p := newRabbitMQPublisher(broker.dial, "salt-events")
	data := map[string]interface{}{"message": "x"}

	require.NoError(t, p.Ping(context.Background()))
	broker.channels[0].err = amqp.ErrClosed

	err := p.FireEvent(context.Background(), "events", data)
	assert.ErrorIs(t, err, amqp.ErrClosed)
	assert.True(t, broker.conns[0].closed)

	require.NoError(t, p.FireEvent(context.Background(), "events", data))
	require.Len(t, broker.conns, 2)
	assert.Len(t, broker.lastChannel().calls, 1)
}

func TestRabbitMQPublisherDialFailure(t *testing.T) {
	broker := &fakeBroker{dialErr: errors.New("connection refused")}
	p := newRabbitMQPublisher(broker.dial, "salt-events")

	assert.ErrorContains(t, p.FireEvent(context.Background(), "events", nil), "connection refused")
	assert.ErrorContains(t, p.Ping(context.Background()), "connection refused")

	broker.dialErr = nil
	assert.NoError(t, p.Ping(context.Background()))
	assert.NoError(t, p.FireEvent(context.Background(), "events", nil))
}

func TestRabbitMQPublisherClose(t *testing.T) {
	broker := &fakeBroker{}
	p := newRabbitMQPublisher(broker.dial, "salt-events")

	require.NoError(t, p.Ping(context.Background()))
	require.NoError(t, p.Close(context.Background()))
	assert.True(t, broker.conns[0].closed)
	assert.True(t, broker.channels[0].closed)

	assert.Error(t, p.FireEvent(context.Background(), "events", nil))
	assert.Len(t, broker.conns, 1)
}

type fakeCollection struct {
	docs []interface{}
	err  error
}

func (c *fakeCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.docs = append(c.docs, document)
	return &mongo.InsertOneResult{}, nil
}

type fakeMongoClient struct {
	pingErr      error
	disconnected bool
}

func (c *fakeMongoClient) Ping(_ context.Context, _ *readpref.ReadPref) error { return c.pingErr }
func (c *fakeMongoClient) Disconnect(_ context.Context) error {
	c.disconnected = true
	return nil
}

func TestMongoPublisher(t *testing.T) {
	coll := &fakeCollection{}
	client := &fakeMongoClient{}
	p := &MongoPublisher{client: client, collection: coll}

	data := map[string]interface{}{"message": map[string]interface{}{"x": int64(2)}}
	require.NoError(t, p.FireEvent(context.Background(), "events", data))

	require.Len(t, coll.docs, 1)
	event, ok := coll.docs[0].(*Event)
	require.True(t, ok)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "events", event.Tag)
	assert.Equal(t, data, event.Data)
	assert.False(t, event.Timestamp.IsZero())

	coll.err = errors.New("write concern")
	assert.ErrorContains(t, p.FireEvent(context.Background(), "events", data), "write concern")

	client.pingErr = errors.New("no reachable servers")
	assert.Error(t, p.Ping(context.Background()))

	require.NoError(t, p.Close(context.Background()))
	assert.True(t, client.disconnected)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	p := NewLogPublisher(&logger)

	require.NoError(t, p.FireEvent(context.Background(), "events", map[string]interface{}{"message": "hello"}))
	assert.Contains(t, buf.String(), `"tag":"events"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
	assert.NoError(t, p.Ping(context.Background()))
	assert.NoError(t, p.Close(context.Background()))
}

func TestFireFunc(t *testing.T) {
	var gotTag string
	var gotData map[string]interface{}
	var p Publisher = FireFunc(func(_ context.Context, tag string, data map[string]interface{}) error {
		gotTag, gotData = tag, data
		return nil
	})

	require.NoError(t, p.FireEvent(context.Background(), "events", map[string]interface{}{"message": "x"}))
	assert.Equal(t, "events", gotTag)
	assert.Equal(t, "x", gotData["message"])
	assert.NoError(t, p.Ping(context.Background()))
	assert.NoError(t, p.Close(context.Background()))
}

func TestNew(t *testing.T) {
	p, err := New(context.Background(), config.EventBusConfig{Type: config.EventBusLog})
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, p)

	_, err = New(context.Background(), config.EventBusConfig{Type: "kafka"})
	assert.Error(t, err)
}
