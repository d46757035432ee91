// Package main contains the entrypoint for the business-message relay bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/time/rate"

	"github.com/edgard/shadowbot/internal/access"
	"github.com/edgard/shadowbot/internal/bot"
	"github.com/edgard/shadowbot/internal/bot/handlers"
	"github.com/edgard/shadowbot/internal/bot/tasks"
	"github.com/edgard/shadowbot/internal/cache"
	"github.com/edgard/shadowbot/internal/config"
	"github.com/edgard/shadowbot/internal/logger"
	"github.com/edgard/shadowbot/internal/notify"
	"github.com/edgard/shadowbot/internal/telegram"

	_ "time/tzdata"
)

// allowedUpdates are the update kinds requested from Telegram.
var allowedUpdates = tgbot.AllowedUpdates{
	"message",
	"callback_query",
	"business_message",
	"edited_business_message",
	"deleted_business_messages",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, blocks until shutdown and returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		slog.Error("Failed to load .env file", "path", *envPath, "error", err)
		return 1
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)
	log.Info("Starting relay bot",
		"owner_id", cfg.Telegram.OwnerID,
		"token_prefix", telegram.TokenPrefix(cfg.Telegram.Token),
		"timezone", cfg.Notify.Location().String())

	store, err := cache.New(ctx, cfg.Cache, log)
	if err != nil {
		log.Error("Failed to connect to cache", "driver", cfg.Cache.Driver, "error", err)
		return 1
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log,
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithAllowedUpdates(allowedUpdates),
		tgbot.WithDefaultHandler(handlers.NewDefaultHandler(handlers.HandlerDeps{Logger: log})),
	)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		closeStore(log, store)
		return 1
	}

	if cfg.Telegram.DropPendingUpdates {
		if _, err := tg.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			log.Warn("Failed to drop pending updates", "error", err)
		}
	}

	var pacer *rate.Limiter
	if cfg.Notify.DeleteInterval > 0 {
		pacer = rate.NewLimiter(rate.Every(cfg.Notify.DeleteInterval), 1)
	}

	policy := access.NewPolicy(cfg.Telegram.OwnerID, cfg.Telegram.AllowedUserIDs)
	log.Info("Access policy loaded", "allowed_users", policy.Size())

	hDeps := handlers.HandlerDeps{
		Logger:     log,
		Config:     cfg,
		Shadow:     cache.NewShadow(store, cfg.Cache.TTL, log),
		Client:     tg,
		Dispatcher: notify.NewDispatcher(tg, cfg.Telegram.OwnerID, notify.NewComposer(cfg.Notify.Location()), cfg.Notify.Keyboard),
		Policy:     policy,
		Pacer:      pacer,
	}
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllHandlers(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		closeStore(log, store)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		closeStore(log, store)
		return 1
	}

	app := bot.NewBot(log, cfg, store, tg, sched)
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting.
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully")
	return 0
}

func closeStore(log *slog.Logger, store cache.Store) {
	if err := store.Close(); err != nil {
		log.Error("Failed to close cache store", "error", err)
	}
}
