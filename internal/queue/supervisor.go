package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/babylonchain/sqs-events-service/internal/config"
	"github.com/babylonchain/sqs-events-service/internal/eventbus"
	"github.com/babylonchain/sqs-events-service/internal/observability/metrics"
	"github.com/babylonchain/sqs-events-service/internal/observability/tracing"
	"github.com/babylonchain/sqs-events-service/internal/queue/client"
)

// ClientFactory builds queue clients. An error means no usable client could
// be built right now.
type ClientFactory interface {
	New(ctx context.Context) (client.QueueClient, error)
}

type State string

const (
	StateInitClient State = "init_client"
	StateResolve    State = "resolve"
	StateFetch      State = "fetch"
)

// Status is a point-in-time view of the supervisor.
type Status struct {
	State       State     `json:"state"`
	QueueName   string    `json:"queue_name"`
	QueueURL    string    `json:"queue_url,omitempty"`
	Tag         string    `json:"tag"`
	LastFetchAt time.Time `json:"last_fetch_at"`
	Forwarded   uint64    `json:"forwarded"`
	Failed      uint64    `json:"failed"`
}

// Supervisor owns the queue client and the cached queue URL, and runs the
// fetch and dispatch cycle until its context is cancelled.
type Supervisor struct {
	queueName   string
	ownerAcctID string
	factory     ClientFactory
	dispatcher  *Dispatcher
	opts        *Options

	client   client.QueueClient
	queueURL string

	mu     sync.RWMutex
	status Status
}

func NewSupervisor(
	cfg config.QueueConfig, factory ClientFactory, publisher eventbus.Publisher, opts ...Option,
) (*Supervisor, error) {
	if cfg.Name == "" {
		return nil, errors.New("queue name cannot be empty")
	}
	if factory == nil {
		return nil, errors.New("client factory cannot be nil")
	}
	if publisher == nil {
		return nil, errors.New("event publisher cannot be nil")
	}

	options := newDefaultOptions()
	for _, o := range opts {
		o(options)
	}
	if err := options.validate(); err != nil {
		return nil, fmt.Errorf("invalid supervisor options: %w", err)
	}

	tag := cfg.Tag
	if tag == "" {
		tag = config.DefaultEventTag
	}

	return &Supervisor{
		queueName:   cfg.Name,
		ownerAcctID: cfg.OwnerAcctID,
		factory:     factory,
		dispatcher:  NewDispatcher(publisher, cfg.Name, tag, cfg.Format()),
		opts:        options,
		status: Status{
			State:     StateInitClient,
			QueueName: cfg.Name,
			Tag:       tag,
		},
	}, nil
}

// Run blocks until ctx is done and returns ctx.Err(). Every other failure is
// logged and retried after the retry interval.
func (s *Supervisor) Run(ctx context.Context) error {
	logger := tracing.Logger(ctx).With().
		Str("queueName", s.queueName).
		Str("ownerAcctId", s.ownerAcctID).
		Logger()
	ctx = logger.WithContext(ctx)

	if err := s.initClient(ctx); err != nil {
		return err
	}
	logger.Info().Msg("queue client ready, starting to poll")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		cycleCtx := tracing.AttachTracingIntoContext(ctx)
		if s.queueURL == "" {
			s.setState(StateResolve, "")
			s.queueURL = ResolveQueueURL(cycleCtx, s.client, s.queueName, s.ownerAcctID)
			if s.queueURL != "" {
				s.setState(StateFetch, s.queueURL)
			}
		}

		if err := s.processQueue(cycleCtx); err != nil {
			return err
		}
	}
}

func (s *Supervisor) initClient(ctx context.Context) error {
	for s.client == nil {
		c, err := s.factory.New(ctx)
		if err == nil {
			s.client = c
			break
		}

		tracing.Logger(ctx).Warn().Err(err).
			Dur("retryIn", s.opts.retryInterval).
			Msg("failed to create queue client")
		metrics.RecordClientInitFailure()

		if err := s.opts.sleep(ctx, s.opts.retryInterval); err != nil {
			return err
		}
	}
	s.setState(StateResolve, "")
	return nil
}

// processQueue runs one fetch and dispatches the batch in arrival order. It
// returns an error only when ctx is done.
func (s *Supervisor) processQueue(ctx context.Context) error {
	messages, pause := FetchMessages(ctx, s.client, s.queueURL, s.queueName, s.ownerAcctID)
	if pause {
		if s.queueURL != "" && s.opts.resetURLOnReceiveError {
			tracing.Logger(ctx).Info().
				Str("queueUrl", s.queueURL).
				Msg("clearing cached queue URL after receive error")
			s.queueURL = ""
			s.setState(StateResolve, "")
		}
		return s.opts.sleep(ctx, s.opts.retryInterval)
	}

	s.markFetched()
	for _, msg := range messages {
		outcome := s.dispatcher.Dispatch(ctx, s.client, s.queueURL, msg)
		s.recordOutcome(outcome)
	}
	return nil
}

func (s *Supervisor) setState(state State, queueURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = state
	s.status.QueueURL = queueURL
}

func (s *Supervisor) markFetched() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastFetchAt = time.Now()
}

func (s *Supervisor) recordOutcome(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if outcome == ForwardFailed {
		s.status.Failed++
		return
	}
	s.status.Forwarded++
}

// Status is safe to call from other goroutines while Run is active.
func (s *Supervisor) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
