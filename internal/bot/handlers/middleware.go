// Package handlers contains Telegram update handlers, along with their
// registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AllowListOnly creates a middleware that checks the message sender against the
// access policy. Other senders get the access-denied reply and processing stops.
func AllowListOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, bot, update)
				return
			}

			userID := update.Message.From.ID
			if deps.Policy.IsAllowed(userID) {
				next(ctx, bot, update)
				return
			}

			chatID := update.Message.Chat.ID
			log := deps.Logger.With("middleware", "AllowListOnly")
			log.InfoContext(ctx, "Command denied for user outside allow-list", "user_id", userID, "chat_id", chatID)

			_, err := deps.Client.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID:    chatID,
				Text:      deps.Config.Messages.AccessDenied,
				ParseMode: models.ParseModeMarkdown,
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to send access denied message", "error", err, "chat_id", chatID)
			}
		}
	}
}
