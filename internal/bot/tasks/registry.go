package tasks

import (
	"context"

	"github.com/edgard/shadowbot/internal/cache"
)

// ScheduledTaskFunc is the signature of every scheduled task. The context is
// cancelled when the scheduler shuts down.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the tasks available for the configured cache
// backend, keyed by the name used in the scheduler.tasks config section.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	// Redis expires entries itself; only backends without native TTL need purging.
	if purger, ok := deps.Store.(cache.Purger); ok {
		tasks["cache_purge"] = newCachePurgeTask(deps, purger)
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
