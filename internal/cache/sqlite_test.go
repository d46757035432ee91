package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/shadowbot/internal/database"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestSQLiteStore(t *testing.T) (*SQLiteStore, *fakeClock) {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	store := NewSQLiteStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = store.Close() })

	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store.now = clock.Now
	return store, clock
}

func TestSQLiteStoreSetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestSQLiteStore(t)

	if _, err := store.Get(ctx, "1:1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(unknown) error = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "1:1", []byte("first"), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "1:1", []byte("second"), time.Hour); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := store.Get(ctx, "1:1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Get() = %q, want overwritten value %q", got, "second")
	}
}

func TestSQLiteStoreExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, clock := newTestSQLiteStore(t)

	if err := store.Set(ctx, "short", []byte("a"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "long", []byte("b"), 21*24*time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	clock.now = clock.now.Add(2 * time.Minute)

	if _, err := store.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(expired) error = %v, want ErrNotFound", err)
	}
	values, err := store.MGet(ctx, "short", "long")
	if err != nil {
		t.Fatalf("MGet() error = %v", err)
	}
	if values[0] != nil || string(values[1]) != "b" {
		t.Errorf("MGet() = %q, want [nil b]", values)
	}

	removed, err := store.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Purge() removed %d rows, want 1", removed)
	}

	var rows int
	if err := store.db.GetContext(ctx, &rows, `SELECT COUNT(*) FROM cache_entries`); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("rows after purge = %d, want 1", rows)
	}
}

func TestSQLiteStoreMGetPreservesOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestSQLiteStore(t)

	for _, key := range []string{"c", "a"} {
		if err := store.Set(ctx, key, []byte("v-"+key), time.Hour); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	values, err := store.MGet(ctx, "a", "b", "c")
	if err != nil {
		t.Fatalf("MGet() error = %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("MGet() returned %d slots, want 3", len(values))
	}
	if string(values[0]) != "v-a" || values[1] != nil || string(values[2]) != "v-c" {
		t.Errorf("MGet() = %q, want [v-a nil v-c]", values)
	}

	empty, err := store.MGet(ctx)
	if err != nil || empty != nil {
		t.Errorf("MGet() with no keys = %v, %v; want nil, nil", empty, err)
	}
}

func TestSQLiteStoreDel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestSQLiteStore(t)

	for _, key := range []string{"1", "2", "3"} {
		if err := store.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	if err := store.Del(ctx, "1", "3", "missing"); err != nil {
		t.Fatalf("Del() error = %v", err)
	}
	if err := store.Del(ctx); err != nil {
		t.Fatalf("Del() with no keys error = %v", err)
	}

	values, err := store.MGet(ctx, "1", "2", "3")
	if err != nil {
		t.Fatalf("MGet() error = %v", err)
	}
	if values[0] != nil || string(values[1]) != "2" || values[2] != nil {
		t.Errorf("after Del MGet() = %q, want [nil 2 nil]", values)
	}
}
