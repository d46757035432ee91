// Package config provides configuration loading, validation, and management
// for the relay bot. Values come from defaults, an optional YAML file, an
// optional .env file, and BOT_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrConfiguration marks every error returned while loading or validating configuration.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration parameters for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot credential and the identities it works with.
type TelegramConfig struct {
	Token              string  `mapstructure:"token"                validate:"required"`
	OwnerID            int64   `mapstructure:"owner_id"             validate:"required,gt=0"`
	AllowedUserIDs     []int64 `mapstructure:"allowed_user_ids"     validate:"dive,gt=0"`
	DropPendingUpdates bool    `mapstructure:"drop_pending_updates"`
}

// CacheConfig selects and configures the key-value backend that holds message snapshots.
type CacheConfig struct {
	Driver string        `mapstructure:"driver" validate:"oneof=redis sqlite"`
	TTL    time.Duration `mapstructure:"ttl"    validate:"min=1m"`
	Redis  RedisConfig   `mapstructure:"redis"`
	SQLite SQLiteConfig  `mapstructure:"sqlite"`
}

// RedisConfig holds the redis connection parameters.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"min=1,max=65535"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       validate:"min=0"`
}

// Addr returns the host:port pair understood by the redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SQLiteConfig holds the path of the SQLite cache file.
type SQLiteConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// NotifyConfig shapes the notifications delivered to the owner.
type NotifyConfig struct {
	Timezone       string        `mapstructure:"timezone"        validate:"required"`
	DeleteInterval time.Duration `mapstructure:"delete_interval" validate:"min=0"`
	Keyboard       bool          `mapstructure:"keyboard"`

	location *time.Location
}

// Location returns the timezone notifications are rendered in.
// It is resolved once during LoadConfig and falls back to UTC when unset.
func (n NotifyConfig) Location() *time.Location {
	if n.location == nil {
		return time.UTC
	}
	return n.location
}

// MessagesConfig holds user-facing replies of the activation command.
type MessagesConfig struct {
	AccessDenied string `mapstructure:"access_denied" validate:"required"`
	Activated    string `mapstructure:"activated"     validate:"required"`
}

// SchedulerConfig lists periodic tasks keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a task and sets its cron schedule (seconds field included).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}
