// Package database opens the SQLite file backing the sqlite cache driver and
// keeps its schema current.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/edgard/shadowbot/migrations"

	_ "modernc.org/sqlite" //revive:disable:blank-imports
)

// busyTimeout is how long a writer waits on a locked cache file before failing.
const busyTimeout = 5 * time.Second

// DSN turns a cache file path into a modernc connection string with WAL
// journaling and a busy timeout. Paths that already carry parameters are
// used unchanged.
func DSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		strings.TrimPrefix(path, "file:"), busyTimeout.Milliseconds())
}

// NewDB opens the cache file at path and applies pending migrations.
func NewDB(path string) (*sqlx.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite cache path is empty")
	}

	db, err := sqlx.Connect("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite cache %s: %w", path, err)
	}

	// Cache writes come from one handler at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := ApplyMigrations(db.DB); err != nil {
		CloseDB(db)
		return nil, err
	}

	slog.Info("SQLite cache opened", "path", path)
	return db, nil
}

// CloseDB closes db, logging instead of returning the error.
func CloseDB(db *sqlx.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		slog.Error("Error closing sqlite cache", "error", err)
	}
}

// ApplyMigrations brings the cache schema up to the latest embedded migration.
func ApplyMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("database connection is nil, cannot apply migrations")
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Debug("Cache schema is up to date")
	case err != nil:
		return fmt.Errorf("failed to apply migrations: %w", err)
	default:
		version, _, _ := migrator.Version()
		slog.Info("Cache schema migrated", "version", version)
	}
	return nil
}
