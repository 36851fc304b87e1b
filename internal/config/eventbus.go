package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

const (
	EventBusLog      = "log"
	EventBusRabbitMQ = "rabbitmq"
	EventBusMongo    = "mongo"
)

var supportedEventBuses = []string{EventBusLog, EventBusRabbitMQ, EventBusMongo}

type RabbitMQConfig struct {
	Url      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type MongoConfig struct {
	Address    string `mapstructure:"address"`
	DbName     string `mapstructure:"db-name"`
	Collection string `mapstructure:"collection"`
}

type EventBusConfig struct {
	Type     string         `mapstructure:"type"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
}

func (cfg *EventBusConfig) Validate() error {
	if !slices.Contains(supportedEventBuses, cfg.Type) {
		return fmt.Errorf("unsupported event bus type: %q", cfg.Type)
	}

	switch cfg.Type {
	case EventBusRabbitMQ:
		return cfg.RabbitMQ.Validate()
	case EventBusMongo:
		return cfg.Mongo.Validate()
	}
	return nil
}

func (cfg *RabbitMQConfig) Validate() error {
	if cfg.Url == "" {
		return errors.New("missing rabbitmq url")
	}

	u, err := url.Parse(cfg.Url)
	if err != nil {
		return fmt.Errorf("invalid rabbitmq url: %w", err)
	}

	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return fmt.Errorf("unsupported rabbitmq scheme: %s", u.Scheme)
	}

	if cfg.Exchange == "" {
		return errors.New("missing rabbitmq exchange")
	}
	return nil
}

func (cfg *MongoConfig) Validate() error {
	if cfg.Address == "" {
		return errors.New("missing mongo address")
	}

	u, err := url.Parse(cfg.Address)
	if err != nil {
		return fmt.Errorf("invalid mongo address: %w", err)
	}

	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return fmt.Errorf("unsupported mongo scheme: %s", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("missing host in mongo address")
	}

	if cfg.DbName == "" {
		return errors.New("missing mongo db name")
	}

	if cfg.Collection == "" {
		return errors.New("missing mongo collection")
	}
	return nil
}
