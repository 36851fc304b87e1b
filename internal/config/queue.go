package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/babylonchain/sqs-events-service/internal/types"
)

const (
	DefaultEventTag      = "salt/engine/sqs"
	DefaultRetryInterval = 10 * time.Second
)

type QueueConfig struct {
	Name                   string        `mapstructure:"name"`
	Profile                interface{}   `mapstructure:"profile"`
	Tag                    string        `mapstructure:"tag"`
	OwnerAcctID            string        `mapstructure:"owner-acct-id"`
	MessageFormat          string        `mapstructure:"message-format"`
	Region                 string        `mapstructure:"region"`
	RetryInterval          time.Duration `mapstructure:"retry-interval"`
	ResetURLOnReceiveError bool          `mapstructure:"reset-url-on-receive-error"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Name == "" {
		return errors.New("missing queue name")
	}

	if cfg.Tag == "" {
		return errors.New("missing queue event tag")
	}

	if cfg.RetryInterval < time.Second {
		return fmt.Errorf("queue retry interval must be at least 1s, got %s", cfg.RetryInterval)
	}

	if _, err := cfg.ProfileRef(); err != nil {
		return err
	}

	return nil
}

func (cfg *QueueConfig) Format() types.MessageFormat {
	return types.ParseMessageFormat(cfg.MessageFormat)
}

// ProfileRef converts the loosely typed profile setting into a ProfileRef:
// a string names an entry of the aws-profiles table, a mapping is an inline
// profile and an absent value means no profile.
func (cfg *QueueConfig) ProfileRef() (types.ProfileRef, error) {
	switch p := cfg.Profile.(type) {
	case nil:
		return types.NoProfile(), nil
	case string:
		if p == "" {
			return types.NoProfile(), nil
		}
		return types.NamedProfile(p), nil
	case types.AWSProfile:
		return types.InlineProfile(p), nil
	case map[string]interface{}, map[interface{}]interface{}:
		var inline types.AWSProfile
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &inline,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return types.ProfileRef{}, err
		}
		if err := decoder.Decode(p); err != nil {
			return types.ProfileRef{}, fmt.Errorf("invalid inline queue profile: %w", err)
		}
		return types.InlineProfile(inline), nil
	default:
		return types.ProfileRef{}, fmt.Errorf("unsupported queue profile type %T", cfg.Profile)
	}
}
