package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/babylonchain/sqs-events-service/internal/config"
)

type eventCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

type mongoClient interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
}

// MongoPublisher journals every event as a document in a collection.
type MongoPublisher struct {
	client     mongoClient
	collection eventCollection
}

func NewMongoPublisher(ctx context.Context, cfg config.MongoConfig) (*MongoPublisher, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Address))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	return &MongoPublisher{
		client:     client,
		collection: client.Database(cfg.DbName).Collection(cfg.Collection),
	}, nil
}

func (p *MongoPublisher) FireEvent(ctx context.Context, tag string, data map[string]interface{}) error {
	event := &Event{
		ID:        uuid.NewString(),
		Tag:       tag,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	if _, err := p.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (p *MongoPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, nil)
}

func (p *MongoPublisher) Close(ctx context.Context) error {
	return p.client.Disconnect(ctx)
}
