package eventbus

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogPublisher writes every event to a zerolog logger. Useful when the
// service runs without a broker.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher logs to logger, or to the global logger when nil.
func NewLogPublisher(logger *zerolog.Logger) *LogPublisher {
	l := log.Logger
	if logger != nil {
		l = *logger
	}
	return &LogPublisher{logger: l.With().Str("eventBus", "log").Logger()}
}

func (p *LogPublisher) FireEvent(_ context.Context, tag string, data map[string]interface{}) error {
	p.logger.Info().Str("tag", tag).Interface("data", data).Msg("event fired")
	return nil
}

func (p *LogPublisher) Ping(_ context.Context) error {
	return nil
}

func (p *LogPublisher) Close(_ context.Context) error {
	return nil
}
