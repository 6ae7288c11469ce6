package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/keepalive/internal/target"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type TargetConfig struct {
	Name            string `mapstructure:"name"`
	Address         string `mapstructure:"address"`
	IntervalMinutes int    `mapstructure:"interval_minutes"`
}

type Config struct {
	Environment string         `mapstructure:"environment"`
	Logging     LoggingConfig  `mapstructure:"logging"`
	PingTargets []TargetConfig `mapstructure:"ping_targets"`
}

// Load reads configuration from path, or from config.yaml in ./config or the
// working directory when path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("environment", EnvDev)
	v.SetDefault("logging.level", LogLevelInfo)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Warn("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	envTargets, err := targetsFromEnv(os.Environ())
	if err != nil {
		return nil, err
	}
	if envTargets != nil {
		cfg.PingTargets = envTargets
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Targets converts the configured targets into ping targets, preserving order.
func (c *Config) Targets() []target.PingTarget {
	targets := make([]target.PingTarget, 0, len(c.PingTargets))
	for _, tc := range c.PingTargets {
		targets = append(targets, target.New(tc.Name, tc.Address, tc.IntervalMinutes))
	}
	return targets
}

func (c *Config) applyDefaults() {
	for i := range c.PingTargets {
		if c.PingTargets[i].IntervalMinutes == 0 {
			c.PingTargets[i].IntervalMinutes = target.DefaultIntervalMinutes
		}
	}
}

// Validate checks the configuration. An empty target list is valid.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.Logging,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.PingTargets,
			validation.Each(validation.By(validateTargetConfig)),
		),
	)
}

func validateTargetConfig(value interface{}) error {
	tc, ok := value.(TargetConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a TargetConfig")
	}

	return validation.ValidateStruct(&tc,
		validation.Field(&tc.Name, validation.Required),
		validation.Field(&tc.Address, validation.Required, validation.By(validateAddress)),
		validation.Field(&tc.IntervalMinutes, validation.Min(1)),
	)
}

func validateAddress(value interface{}) error {
	address, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	parsedURL, err := url.Parse(address)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
