// Package bot wires the Telegram listener, the scheduler and the cache
// together and manages their lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/shadowbot/internal/cache"
	"github.com/edgard/shadowbot/internal/config"
)

// Listener receives updates until its context is cancelled. *bot.Bot from
// go-telegram/bot satisfies it.
type Listener interface {
	Start(ctx context.Context)
}

// Bot represents the running application and owns its components.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	store     cache.Store
	listener  Listener
	scheduler *Scheduler
}

// NewBot creates the orchestrator. The store is closed when Run returns.
func NewBot(logger *slog.Logger, cfg *config.Config, store cache.Store, listener Listener, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		store:     store,
		listener:  listener,
		scheduler: scheduler,
	}
}

// Run starts the listener and the scheduler and blocks until ctx is cancelled
// or a component fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator", "owner_id", b.cfg.Telegram.OwnerID, "cache_driver", b.cfg.Cache.Driver)
	defer b.closeStore()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram update listener")
		b.listener.Start(gCtx)
		b.logger.Info("Telegram update listener stopped")

		if gCtx.Err() == nil {
			return errors.New("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			// Stop releases the scheduler even though it never started.
			_ = b.scheduler.Stop()
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully")
	return nil
}

func (b *Bot) closeStore() {
	if err := b.store.Close(); err != nil {
		b.logger.Error("Failed to close cache store", "error", err)
	}
}
