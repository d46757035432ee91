// Package logger provides structured logging for the relay bot.
// It uses Go's slog package with configurable levels and formats.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLogger creates a new slog Logger with the specified level and format.
// If jsonOutput is true, logs will be formatted as JSON, otherwise as text.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	return newLogger(os.Stdout, levelStr, jsonOutput)
}

func newLogger(w io.Writer, levelStr string, jsonOutput bool) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Middleware creates a logging middleware for the Telegram bot.
// It logs every incoming update with its kind and identifiers. Message
// content is never logged: business chats are private conversations.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()

			logEntry := log.With(append([]any{"update_id", update.ID}, describeUpdate(update)...)...)
			logEntry.DebugContext(ctx, "Processing update")

			next(ctx, b, update)

			logEntry.DebugContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

// describeUpdate returns slog attributes identifying the update kind and its chat/message ids.
func describeUpdate(update *models.Update) []any {
	switch {
	case update.BusinessMessage != nil:
		return messageAttrs("business_message", update.BusinessMessage)
	case update.EditedBusinessMessage != nil:
		return messageAttrs("edited_business_message", update.EditedBusinessMessage)
	case update.DeletedBusinessMessages != nil:
		return []any{
			"update_type", "deleted_business_messages",
			"chat_id", update.DeletedBusinessMessages.Chat.ID,
			"message_count", len(update.DeletedBusinessMessages.MessageIDs),
		}
	case update.Message != nil:
		return messageAttrs("message", update.Message)
	case update.CallbackQuery != nil:
		attrs := []any{
			"update_type", "callback_query",
			"callback_query_id", update.CallbackQuery.ID,
			"user_id", update.CallbackQuery.From.ID,
			"data", truncateString(update.CallbackQuery.Data, 50),
		}
		if msg := update.CallbackQuery.Message.Message; msg != nil {
			attrs = append(attrs, "chat_id", msg.Chat.ID, "message_accessible", true)
		} else if inaccessible := update.CallbackQuery.Message.InaccessibleMessage; inaccessible != nil {
			attrs = append(attrs, "chat_id", inaccessible.Chat.ID, "message_accessible", false)
		}
		return attrs
	default:
		return []any{"update_type", "other"}
	}
}

func messageAttrs(updateType string, msg *models.Message) []any {
	attrs := []any{
		"update_type", updateType,
		"chat_id", msg.Chat.ID,
		"message_id", msg.ID,
	}
	if msg.From != nil {
		attrs = append(attrs, "user_id", msg.From.ID)
	}
	return attrs
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
