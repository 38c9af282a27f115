package translateplus

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/translateplus/translateplus-go/internal/apierrors"
)

// EnvPrefix is the prefix of the environment variables read by LoadEnvConfig.
const EnvPrefix = "TRANSLATEPLUS"

// EnvConfig is the client configuration read from the environment:
//
//	TRANSLATEPLUS_API_KEY         (required)
//	TRANSLATEPLUS_BASE_URL        default https://api.translateplus.io
//	TRANSLATEPLUS_TIMEOUT         default 30s
//	TRANSLATEPLUS_MAX_RETRIES     default 3
//	TRANSLATEPLUS_MAX_CONCURRENT  default 5
//	TRANSLATEPLUS_LOG_LEVEL       default warn
type EnvConfig struct {
	APIKey        string        `envconfig:"API_KEY"`
	BaseURL       string        `envconfig:"BASE_URL" default:"https://api.translateplus.io"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"30s"`
	MaxRetries    int           `envconfig:"MAX_RETRIES" default:"3"`
	MaxConcurrent int           `envconfig:"MAX_CONCURRENT" default:"5"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"warn"`
}

// LoadEnvConfig reads EnvConfig from the environment. A missing API key
// is reported as ErrMissingAPIKey.
func LoadEnvConfig() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, &apierrors.ValidationError{Message: err.Error(), Err: err}
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, &apierrors.ValidationError{
			Message: fmt.Sprintf("%s: set %s_API_KEY", apierrors.ErrMissingAPIKey, EnvPrefix),
			Err:     apierrors.ErrMissingAPIKey,
		}
	}
	return &cfg, nil
}

// Level parses LogLevel. An empty level means warn.
func (e *EnvConfig) Level() (zerolog.Level, error) {
	if e.LogLevel == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(e.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse %s_LOG_LEVEL: %w", EnvPrefix, err)
	}
	return level, nil
}

// Options converts e into client options.
func (e *EnvConfig) Options() []Option {
	return []Option{
		WithBaseURL(e.BaseURL),
		WithTimeout(e.Timeout),
		WithRetries(e.MaxRetries),
		WithMaxConcurrent(e.MaxConcurrent),
	}
}

// NewFromEnv creates a client configured from the environment. opts are
// applied after the environment values and override them.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadEnvConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg.APIKey, append(cfg.Options(), opts...)...)
}
