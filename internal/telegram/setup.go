// Package telegram creates the go-telegram/bot client and registers update handlers on it.
package telegram

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"github.com/edgard/shadowbot/internal/bot/handlers"
)

// TokenPrefix returns the part of token that is safe to log.
func TokenPrefix(token string) string {
	const visible = 8
	if len(token) <= visible {
		return "***"
	}
	return token[:visible] + "..."
}

// NewTelegramBot creates a Telegram client for token. Handlers run on the
// polling goroutine one update at a time, so an edit or deletion is always
// processed after the arrival it refers to.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, errors.New("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	opts = append([]bot.Option{bot.WithNotAsyncHandlers()}, opts...)
	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created", "token_prefix", TokenPrefix(token))
	return b, nil
}

// applyMiddleware wraps handler so the first middleware in mw is the outermost.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// RegisterHandlers registers every handler of the registry on b. Handlers with a
// MatchFunc are registered by predicate, the rest by type and pattern.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, registered map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return errors.New("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	if len(registered) == 0 {
		log.Warn("No handlers provided for registration")
		return nil
	}

	count := 0
	for name, reg := range registered {
		if reg.Handler == nil {
			log.Warn("Skipping registration for nil handler", "name", name)
			continue
		}

		final := applyMiddleware(reg.Handler, reg.Middleware)
		if reg.MatchFunc != nil {
			b.RegisterHandlerMatchFunc(reg.MatchFunc, final)
		} else {
			b.RegisterHandler(reg.HandlerType, reg.Pattern, reg.MatchType, final)
		}
		count++
		log.Debug("Registered handler", "name", name, "middleware_count", len(reg.Middleware))
	}

	log.Info("Registered Telegram handlers", "count", count)
	return nil
}
