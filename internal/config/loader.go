package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadDotEnv copies variables from a .env file into the process environment.
// Variables already present in the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No .env file found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("%w: failed to load %s: %v", ErrConfiguration, path, err)
	}
	slog.Debug("Loaded .env file", "path", path)
	return nil
}

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at path (optional, a missing file is not an error)
// 3. BOT_* environment variables (e.g. BOT_TELEGRAM_TOKEN, BOT_CACHE_REDIS_HOST)
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
			}
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks struct constraints and resolves the notification timezone.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if c.Cache.Driver == "redis" && c.Cache.Redis.Host == "" {
		return fmt.Errorf("%w: cache.redis.host is required for the redis driver", ErrConfiguration)
	}

	loc, err := time.LoadLocation(c.Notify.Timezone)
	if err != nil {
		return fmt.Errorf("%w: unknown notify.timezone %q: %v", ErrConfiguration, c.Notify.Timezone, err)
	}
	c.Notify.location = loc

	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && task.Schedule == "" {
			return fmt.Errorf("%w: scheduler task %q is enabled but has no schedule", ErrConfiguration, name)
		}
	}
	return nil
}
