package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = true

	DefaultCacheDriver = "redis"
	DefaultCacheTTL    = 21 * 24 * time.Hour
	DefaultRedisHost   = "localhost"
	DefaultRedisPort   = 6381
	DefaultSQLitePath  = "cache.db"

	DefaultTimezone       = "Europe/Moscow"
	DefaultDeleteInterval = 100 * time.Millisecond

	DefaultCachePurgeSchedule = "0 */10 * * * *"
)

// Default replies of the activation command. Replies are sent with MarkdownV2,
// so reserved characters are escaped here.
const (
	DefaultMsgAccessDenied = "⛔ *Access denied*"
	DefaultMsgActivated    = "✅ Bot activated\\!\n\n" +
		"Deleted and edited messages in connected business chats will be forwarded to the owner\\."
)

// setDefaults registers every known key so that BOT_* environment variables
// can override keys that the config file does not mention.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.owner_id", 0)
	v.SetDefault("telegram.allowed_user_ids", []int64{})
	v.SetDefault("telegram.drop_pending_updates", false)

	v.SetDefault("cache.driver", DefaultCacheDriver)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.redis.host", DefaultRedisHost)
	v.SetDefault("cache.redis.port", DefaultRedisPort)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.sqlite.path", DefaultSQLitePath)

	v.SetDefault("notify.timezone", DefaultTimezone)
	v.SetDefault("notify.delete_interval", DefaultDeleteInterval)
	v.SetDefault("notify.keyboard", false)

	v.SetDefault("messages.access_denied", DefaultMsgAccessDenied)
	v.SetDefault("messages.activated", DefaultMsgActivated)

	v.SetDefault("scheduler.tasks.cache_purge.enabled", true)
	v.SetDefault("scheduler.tasks.cache_purge.schedule", DefaultCachePurgeSchedule)
}
