package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/edgard/shadowbot/internal/snapshot"
)

// Key returns the cache key of a message: "{chat_id}:{message_id}".
func Key(chatID int64, messageID int) string {
	return strconv.FormatInt(chatID, 10) + ":" + strconv.Itoa(messageID)
}

// Shadow keeps the latest snapshot of every observed message for a bounded
// retention window, so edits and deletions can be reported with the content
// the platform no longer supplies.
type Shadow struct {
	backend Store
	ttl     time.Duration
	logger  *slog.Logger
}

// NewShadow creates a shadow cache writing every snapshot with the given ttl.
func NewShadow(backend Store, ttl time.Duration, logger *slog.Logger) *Shadow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shadow{
		backend: backend,
		ttl:     ttl,
		logger:  logger.With("component", "shadow_cache"),
	}
}

// Store writes snap under its (chat, message) key, replacing any earlier version.
func (s *Shadow) Store(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap == nil {
		return errors.New("cannot store nil snapshot")
	}

	data, err := snap.Marshal()
	if err != nil {
		return err
	}

	key := Key(snap.Chat.ID, snap.MessageID)
	if err := s.backend.Set(ctx, key, data, s.ttl); err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", key, err)
	}
	return nil
}

// Fetch returns the stored snapshot, or nil, nil if none is stored.
func (s *Shadow) Fetch(ctx context.Context, chatID int64, messageID int) (*snapshot.Snapshot, error) {
	key := Key(chatID, messageID)

	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch snapshot %s: %w", key, err)
	}

	return s.decode(ctx, key, data), nil
}

// FetchMany looks up several messages of one chat in a single round trip.
// The result has one slot per id in input order; absent snapshots are nil.
func (s *Shadow) FetchMany(ctx context.Context, chatID int64, messageIDs []int) ([]*snapshot.Snapshot, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(messageIDs))
	for i, id := range messageIDs {
		keys[i] = Key(chatID, id)
	}

	values, err := s.backend.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %d snapshots in chat %d: %w", len(keys), chatID, err)
	}

	out := make([]*snapshot.Snapshot, len(keys))
	for i, data := range values {
		if i >= len(out) {
			break
		}
		if data != nil {
			out[i] = s.decode(ctx, keys[i], data)
		}
	}
	return out, nil
}

// Remove deletes snapshots by key in one batch.
func (s *Shadow) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.backend.Del(ctx, keys...); err != nil {
		return fmt.Errorf("failed to remove %d snapshots: %w", len(keys), err)
	}
	return nil
}

// decode treats an unreadable value as absent; it can only come from an
// incompatible earlier release and will expire on its own.
func (s *Shadow) decode(ctx context.Context, key string, data []byte) *snapshot.Snapshot {
	snap, err := snapshot.Unmarshal(data)
	if err != nil {
		s.logger.WarnContext(ctx, "Discarding undecodable snapshot", "key", key, "error", err)
		return nil
	}
	return snap
}
