package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/babylonchain/sqs-events-service/internal/types"
)

const (
	// FallbackRegion is used when neither the profile, the explicit
	// parameters nor the process-wide default name a region.
	FallbackRegion = "us-east-1"

	credentialsCheckTimeout = 10 * time.Second
)

// Settings are the resolved region and optional static credentials for one
// client construction.
type Settings struct {
	Region string
	KeyID  string
	Key    string
}

func (s Settings) HasStaticCredentials() bool {
	return s.KeyID != "" && s.Key != ""
}

type FactoryConfig struct {
	// Profile selects the profile whose values take precedence.
	Profile types.ProfileRef
	// Explicit holds region/credential parameters passed by the caller.
	Explicit types.AWSProfile
	// Profiles is the process-wide named profile table.
	Profiles map[string]types.AWSProfile
	// DefaultRegion is the process-wide default region.
	DefaultRegion string
	// MaxRetryAttempts overrides the SDK retryer when positive.
	MaxRetryAttempts int
}

// ResolveSettings applies the lookup order for every field: profile value,
// explicit parameter, then (region only) the process-wide default and the
// fallback region. Credentials are only static when both key id and key are
// known; otherwise the ambient provider chain is used.
func ResolveSettings(
	ref types.ProfileRef, explicit types.AWSProfile,
	profiles map[string]types.AWSProfile, defaultRegion string,
) (Settings, error) {
	var profile types.AWSProfile
	switch ref.Kind() {
	case types.ProfileNamed:
		p, ok := types.LookupProfile(profiles, ref.Name())
		if !ok {
			return Settings{}, fmt.Errorf("AWS profile %q not found", ref.Name())
		}
		profile = p
	case types.ProfileInline:
		profile = ref.Inline()
	}

	settings := Settings{
		Region: firstNonEmpty(profile.Region, explicit.Region, defaultRegion, FallbackRegion),
		KeyID:  firstNonEmpty(profile.KeyID, explicit.KeyID),
		Key:    firstNonEmpty(profile.Key, explicit.Key),
	}
	return settings, nil
}

// LoadAWSConfig builds the AWS configuration for settings. Static
// credentials replace the default provider chain only when both halves are
// present.
func LoadAWSConfig(ctx context.Context, settings Settings, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(settings.Region),
	}
	if settings.HasStaticCredentials() {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.KeyID, settings.Key, ""),
		))
	}
	opts = append(opts, optFns...)

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// Factory builds authenticated SQS clients. It never retries; callers decide
// when to try again.
type Factory struct {
	cfg         FactoryConfig
	loadOptions []func(*config.LoadOptions) error
}

func NewFactory(cfg FactoryConfig, loadOptions ...func(*config.LoadOptions) error) *Factory {
	return &Factory{
		cfg:         cfg,
		loadOptions: loadOptions,
	}
}

// New returns a client, or an error when no usable region or credentials
// could be resolved.
func (f *Factory) New(ctx context.Context) (QueueClient, error) {
	settings, err := ResolveSettings(f.cfg.Profile, f.cfg.Explicit, f.cfg.Profiles, f.cfg.DefaultRegion)
	if err != nil {
		return nil, err
	}

	awsCfg, err := LoadAWSConfig(ctx, settings, f.loadOptions...)
	if err != nil {
		return nil, err
	}

	if err := checkCredentials(ctx, awsCfg); err != nil {
		return nil, err
	}

	api := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if f.cfg.MaxRetryAttempts > 0 {
			o.Retryer = retry.AddWithMaxAttempts(o.Retryer, f.cfg.MaxRetryAttempts)
		}
	})

	return NewSQSClient(api, awsCfg.Region), nil
}

func checkCredentials(ctx context.Context, awsCfg aws.Config) error {
	if awsCfg.Region == "" {
		return errors.New("no AWS region resolved")
	}
	if awsCfg.Credentials == nil {
		return errors.New("no AWS credentials provider resolved")
	}

	ctx, cancel := context.WithTimeout(ctx, credentialsCheckTimeout)
	defer cancel()

	if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
		return fmt.Errorf("no usable AWS credentials for region %s: %w", awsCfg.Region, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
