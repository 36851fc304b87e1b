package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/babylonchain/sqs-events-service/cmd/sqs-events-service/cli"
	"github.com/babylonchain/sqs-events-service/internal/api"
	"github.com/babylonchain/sqs-events-service/internal/config"
	"github.com/babylonchain/sqs-events-service/internal/eventbus"
	"github.com/babylonchain/sqs-events-service/internal/observability/healthcheck"
	"github.com/babylonchain/sqs-events-service/internal/observability/metrics"
	"github.com/babylonchain/sqs-events-service/internal/queue"
	"github.com/babylonchain/sqs-events-service/internal/queue/client"
)

const publisherCloseTimeout = 5 * time.Second

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	logLevel, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("error while parsing log level")
	}
	zerolog.SetGlobalLevel(logLevel)

	// initialize metrics with the metrics address from config
	metrics.Init(cfg.Metrics.GetMetricsAddr())

	publisher, err := eventbus.New(ctx, cfg.EventBus)
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.EventBus.Type).Msg("error while setting up event bus publisher")
	}

	profile, err := cfg.Queue.ProfileRef()
	if err != nil {
		log.Fatal().Err(err).Msg("error while reading queue profile")
	}
	factory := client.NewFactory(client.FactoryConfig{
		Profile:       profile,
		Profiles:      cfg.AWSProfiles,
		DefaultRegion: cfg.Queue.Region,
	})

	supervisor, err := queue.NewSupervisor(
		cfg.Queue, factory, publisher,
		queue.WithRetryInterval(cfg.Queue.RetryInterval),
		queue.WithResetURLOnReceiveError(cfg.Queue.ResetURLOnReceiveError),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up queue supervisor")
	}

	if err := healthcheck.StartHealthCheckCron(ctx, supervisor, publisher, cfg.Server.HealthCheckInterval); err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	apiServer, err := api.New(ctx, cfg, supervisor, publisher)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up sqs events api server")
	}

	log.Info().
		Str("queueName", cfg.Queue.Name).
		Str("tag", cfg.Queue.Tag).
		Str("profile", profile.String()).
		Str("eventBus", cfg.EventBus.Type).
		Msg("starting sqs events service")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return supervisor.Run(gctx)
	})
	g.Go(func() error {
		return apiServer.Start(gctx)
	})

	runErr := g.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), publisherCloseTimeout)
	defer cancel()
	if err := publisher.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("error while closing event bus publisher")
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatal().Err(runErr).Msg("sqs events service stopped with error")
	}
	log.Info().Msg("sqs events service stopped")
}
