package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/shadowbot/internal/database"
)

// SQLiteStore is a Store backed by the cache_entries table. Expired rows are
// invisible to reads and are removed by Purge.
type SQLiteStore struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

type entry struct {
	Key   string `db:"cache_key"`
	Value []byte `db:"value"`
}

// NewSQLiteStore wraps a migrated database connection.
func NewSQLiteStore(db *sqlx.DB, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "sqlite_cache"),
		now:    time.Now,
	}
}

// Set implements Store.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
        INSERT INTO cache_entries (cache_key, value, expires_at)
        VALUES (?, ?, ?)
        ON CONFLICT(cache_key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at;
    `
	expiresAt := s.now().Add(ttl).UnixMilli()
	if _, err := s.db.ExecContext(ctx, query, key, value, expiresAt); err != nil {
		return fmt.Errorf("sqlite set %s: %w", key, err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value,
		`SELECT value FROM cache_entries WHERE cache_key = ? AND expires_at > ?`,
		key, s.now().UnixMilli())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("sqlite get %s: %w", key, err)
	}
	return value, nil
}

// MGet implements Store.
func (s *SQLiteStore) MGet(ctx context.Context, keys ...string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT cache_key, value FROM cache_entries WHERE cache_key IN (?) AND expires_at > ?`,
		keys, s.now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("sqlite mget: failed to build query: %w", err)
	}

	var rows []entry
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("sqlite mget (%d keys): %w", len(keys), err)
	}

	found := make(map[string][]byte, len(rows))
	for _, row := range rows {
		found[row.Key] = row.Value
	}

	out := make([][]byte, len(keys))
	for i, key := range keys {
		out[i] = found[key]
	}
	return out, nil
}

// Del implements Store.
func (s *SQLiteStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM cache_entries WHERE cache_key IN (?)`, keys)
	if err != nil {
		return fmt.Errorf("sqlite del: failed to build query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("sqlite del (%d keys): %w", len(keys), err)
	}
	return nil
}

// Purge implements Purger.
func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("sqlite purge: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not determine purged row count", "error", err)
		return 0, nil
	}
	return removed, nil
}

// Ping implements Store.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	database.CloseDB(s.db)
	return nil
}
