// Package tasks implements the periodic maintenance tasks run by the scheduler.
package tasks

import (
	"log/slog"

	"github.com/edgard/shadowbot/internal/cache"
)

// TaskDeps contains the dependencies shared by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  cache.Store
}
