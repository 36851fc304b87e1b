package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/babylonchain/sqs-events-service/internal/config"
)

type amqpConnection interface {
	IsClosed() bool
	Close() error
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func() (amqpConnection, amqpChannel, error)

// RabbitMQPublisher publishes events to a topic exchange, using the event tag
// as routing key. A closed connection or a failed publish drops the
// connection; the next call dials again.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	dial     dialFunc
	conn     amqpConnection
	channel  amqpChannel
	exchange string
}

func NewRabbitMQPublisher(cfg config.RabbitMQConfig) (*RabbitMQPublisher, error) {
	p := newRabbitMQPublisher(func() (amqpConnection, amqpChannel, error) {
		return dialRabbitMQ(cfg)
	}, cfg.Exchange)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialRabbitMQ(cfg config.RabbitMQConfig) (amqpConnection, amqpChannel, error) {
	conn, err := amqp.Dial(cfg.Url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,       // name
		amqp.ExchangeTopic, // type
		true,               // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare rabbitmq exchange %s: %w", cfg.Exchange, err)
	}

	return conn, ch, nil
}

func newRabbitMQPublisher(dial dialFunc, exchange string) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		dial:     dial,
		exchange: exchange,
	}
}

// connect must be called with p.mu held.
func (p *RabbitMQPublisher) connect() error {
	if p.conn != nil && !p.conn.IsClosed() {
		return nil
	}
	p.reset()

	conn, ch, err := p.dial()
	if err != nil {
		return err
	}
	p.conn = conn
	p.channel = ch
	return nil
}

// reset must be called with p.mu held.
func (p *RabbitMQPublisher) reset() {
	if p.channel != nil {
		p.channel.Close() // nolint:errcheck
	}
	if p.conn != nil && !p.conn.IsClosed() {
		p.conn.Close() // nolint:errcheck
	}
	p.conn = nil
	p.channel = nil
}

func (p *RabbitMQPublisher) FireEvent(ctx context.Context, tag string, data map[string]interface{}) error {
	event := Event{
		ID:        uuid.NewString(),
		Tag:       tag,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.connect(); err != nil {
		return err
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, tag, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.Timestamp,
		Body:         body,
	})
	if err != nil {
		// A failed publish may have closed the channel on the server side.
		p.reset()
		return fmt.Errorf("failed to publish event to rabbitmq exchange %s: %w", p.exchange, err)
	}
	return nil
}

func (p *RabbitMQPublisher) Ping(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.connect(); err != nil {
		return fmt.Errorf("rabbitmq connection is down: %w", err)
	}
	return nil
}

func (p *RabbitMQPublisher) Close(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	err := errors.Join(p.channel.Close(), p.conn.Close())
	p.conn = nil
	p.channel = nil
	p.dial = func() (amqpConnection, amqpChannel, error) {
		return nil, nil, errors.New("rabbitmq publisher is closed")
	}
	return err
}
