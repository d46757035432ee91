package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/shadowbot/internal/cache"
)

const purgeTimeout = time.Minute

// newCachePurgeTask creates the task deleting expired snapshots from a backend
// that does not expire them on its own.
func newCachePurgeTask(deps TaskDeps, purger cache.Purger) ScheduledTaskFunc {
	log := deps.Logger.With("task", "cache_purge")

	return func(ctx context.Context) error {
		startTime := time.Now()

		purgeCtx, cancel := context.WithTimeout(ctx, purgeTimeout)
		defer cancel()

		removed, err := purger.Purge(purgeCtx)
		duration := time.Since(startTime)
		if err != nil {
			log.ErrorContext(ctx, "Cache purge failed", "error", err, "duration", duration)
			return fmt.Errorf("cache purge failed: %w", err)
		}

		log.InfoContext(ctx, "Cache purge completed", "removed", removed, "duration", duration)
		return nil
	}
}
