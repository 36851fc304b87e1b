package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/babylonchain/sqs-events-service/internal/queue"
)

const (
	defaultCronTime = 60
	// staleIntervals is how many health intervals may pass without a
	// completed fetch before the loop is reported as stalled.
	staleIntervals = 3
	pingTimeout    = 5 * time.Second
)

var logger zerolog.Logger = log.Logger

func SetLogger(customLogger zerolog.Logger) {
	logger = customLogger
}

type StatusProvider interface {
	Status() queue.Status
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type checker struct {
	status    StatusProvider
	publisher Pinger
	interval  time.Duration
	startedAt time.Time
	now       func() time.Time
}

func newChecker(status StatusProvider, publisher Pinger, interval time.Duration) *checker {
	now := time.Now
	return &checker{
		status:    status,
		publisher: publisher,
		interval:  interval,
		startedAt: now(),
		now:       now,
	}
}

// check reports a stalled loop or an unreachable event bus. Neither is
// fatal: the loop recovers by itself.
func (c *checker) check(ctx context.Context) error {
	var errs []error

	status := c.status.Status()
	lastProgress := status.LastFetchAt
	if lastProgress.IsZero() {
		lastProgress = c.startedAt
	}
	if idle := c.now().Sub(lastProgress); idle > staleIntervals*c.interval {
		errs = append(errs, fmt.Errorf(
			"no completed fetch on queue %s for %s (state %s)", status.QueueName, idle.Round(time.Second), status.State,
		))
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.publisher.Ping(pingCtx); err != nil {
		errs = append(errs, fmt.Errorf("event bus is not reachable: %w", err))
	}

	return errors.Join(errs...)
}

func StartHealthCheckCron(ctx context.Context, status StatusProvider, publisher Pinger, cronTime int) error {
	c := cron.New()
	logger.Info().Msg("Initiated Health Check Cron")

	if cronTime == 0 {
		cronTime = defaultCronTime
	}

	hc := newChecker(status, publisher, time.Duration(cronTime)*time.Second)
	cronSpec := fmt.Sprintf("@every %ds", cronTime)

	_, err := c.AddFunc(cronSpec, func() {
		if err := hc.check(ctx); err != nil {
			logger.Warn().Err(err).Msg("health check failed")
		}
	})
	if err != nil {
		return err
	}

	c.Start()

	go func() {
		<-ctx.Done()
		logger.Info().Msg("Stopping Health Check Cron")
		c.Stop()
	}()

	return nil
}
