package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/babylonchain/sqs-events-service/internal/config"
)

// Publisher fires events on the host event bus.
type Publisher interface {
	FireEvent(ctx context.Context, tag string, data map[string]interface{}) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Event is the envelope written by the publishers that serialize events.
type Event struct {
	ID        string                 `json:"id" bson:"_id"`
	Tag       string                 `json:"tag" bson:"tag"`
	Data      map[string]interface{} `json:"data" bson:"data"`
	Timestamp time.Time              `json:"timestamp" bson:"timestamp"`
}

// FireFunc adapts a plain function to Publisher. Ping and Close are no-ops.
type FireFunc func(ctx context.Context, tag string, data map[string]interface{}) error

func (f FireFunc) FireEvent(ctx context.Context, tag string, data map[string]interface{}) error {
	return f(ctx, tag, data)
}

func (f FireFunc) Ping(_ context.Context) error {
	return nil
}

func (f FireFunc) Close(_ context.Context) error {
	return nil
}

// New builds the publisher selected by cfg.Type.
func New(ctx context.Context, cfg config.EventBusConfig) (Publisher, error) {
	switch cfg.Type {
	case config.EventBusLog, "":
		return NewLogPublisher(nil), nil
	case config.EventBusRabbitMQ:
		return NewRabbitMQPublisher(cfg.RabbitMQ)
	case config.EventBusMongo:
		return NewMongoPublisher(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unsupported event bus type: %q", cfg.Type)
	}
}
