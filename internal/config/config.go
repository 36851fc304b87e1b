package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/babylonchain/sqs-events-service/internal/types"
)

type Config struct {
	Server      ServerConfig                `mapstructure:"server"`
	Queue       QueueConfig                 `mapstructure:"queue"`
	AWSProfiles map[string]types.AWSProfile `mapstructure:"aws-profiles"`
	EventBus    EventBusConfig              `mapstructure:"event-bus"`
	Metrics     MetricsConfig               `mapstructure:"metrics"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	if err := cfg.Queue.Validate(); err != nil {
		return err
	}

	if err := cfg.EventBus.Validate(); err != nil {
		return err
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}

	// A named queue profile must exist in aws-profiles.
	ref, _ := cfg.Queue.ProfileRef()
	if ref.Kind() == types.ProfileNamed {
		if _, ok := types.LookupProfile(cfg.AWSProfiles, ref.Name()); !ok {
			return fmt.Errorf("queue profile %q not found in aws-profiles", ref.Name())
		}
	}

	return nil
}

// New returns a fully parsed Config object from a given file directory
func New(cfgFile string) (*Config, error) {
	_, err := os.Stat(cfgFile)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(cfgFile)
	setDefaults(v)

	v.AutomaticEnv()
	/*
		Below code will replace nested fields in yml into `_` and any `-` into `__` when you try to override this config via env variable
		To give an example:
		1. `some.config.a` can be overriden by `SOME_CONFIG_A`
		2. `some.config-a` can be overriden by `SOME_CONFIG__A`
		This is to avoid using `-` in the environment variable as it's not supported in all os terminal/bash
		Note: vipner package use `.` as delimitter by default. Read more here: https://pkg.go.dev/github.com/spf13/viper#readme-accessing-nested-keys
	*/
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "__"))

	err = v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err = v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	metrics := DefaultMetricsConfig()
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8092)
	v.SetDefault("server.log-level", "info")
	v.SetDefault("server.health-check-interval", 60)
	v.SetDefault("queue.tag", DefaultEventTag)
	v.SetDefault("queue.message-format", string(types.RawFormat))
	v.SetDefault("queue.retry-interval", DefaultRetryInterval)
	v.SetDefault("event-bus.type", EventBusLog)
	v.SetDefault("metrics.host", metrics.Host)
	v.SetDefault("metrics.port", metrics.Port)
}
