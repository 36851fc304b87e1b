package queue

import (
	"errors"
	"time"

	"github.com/babylonchain/sqs-events-service/internal/config"
	"github.com/babylonchain/sqs-events-service/internal/utils"
)

// Option configures a Supervisor.
type Option func(*Options)

type Options struct {
	retryInterval          time.Duration
	resetURLOnReceiveError bool
	sleep                  utils.SleepFunc
}

func newDefaultOptions() *Options {
	return &Options{
		retryInterval: config.DefaultRetryInterval,
		sleep:         utils.Sleep,
	}
}

// WithRetryInterval sets the pause after a failed client construction,
// resolution or receive.
func WithRetryInterval(d time.Duration) Option {
	return func(o *Options) {
		o.retryInterval = d
	}
}

// WithResetURLOnReceiveError clears the cached queue URL after a receive
// error so the next iteration resolves it again.
func WithResetURLOnReceiveError(reset bool) Option {
	return func(o *Options) {
		o.resetURLOnReceiveError = reset
	}
}

// WithSleepFunc replaces the timer used between retries.
func WithSleepFunc(sleep utils.SleepFunc) Option {
	return func(o *Options) {
		o.sleep = sleep
	}
}

func (o *Options) validate() error {
	if o.retryInterval <= 0 {
		return errors.New("retry interval must be positive")
	}

	if o.sleep == nil {
		return errors.New("sleep function cannot be nil")
	}

	return nil
}
