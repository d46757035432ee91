// Package cache provides the key-value store holding message snapshots and
// the message shadow cache built on top of it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgard/shadowbot/internal/config"
	"github.com/edgard/shadowbot/internal/database"
)

// ErrNotFound is returned by Store.Get when the key was never written or has expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is a key-value store with per-key expiry.
type Store interface {
	// Set writes value under key, replacing any previous value, and expires it after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// MGet returns one slot per key in input order. Missing or expired keys yield nil.
	MGet(ctx context.Context, keys ...string) ([][]byte, error)

	// Del removes keys. Unknown keys are ignored.
	Del(ctx context.Context, keys ...string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

// Purger is implemented by backends without native expiry. Purge deletes
// expired entries and reports how many were removed.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// New opens the backend selected by cfg.Driver and verifies it with a ping.
// A backend that cannot be reached is an error: the bot refuses to run without its cache.
func New(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "cache", "driver", cfg.Driver)

	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case "redis":
		store = NewRedisStore(cfg.Redis)
	case "sqlite":
		db, dbErr := database.NewDB(cfg.SQLite.Path)
		if dbErr != nil {
			return nil, fmt.Errorf("failed to open sqlite cache: %w", dbErr)
		}
		store = NewSQLiteStore(db, logger)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}

	if err = store.Ping(ctx); err != nil {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn("Failed to close cache after failed ping", "error", closeErr)
		}
		return nil, fmt.Errorf("cache ping failed: %w", err)
	}

	log.Info("Cache connected")
	return store, nil
}
