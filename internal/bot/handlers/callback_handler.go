package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/shadowbot/internal/notify"
)

// NewCallbackHandler returns a handler for the buttons of the notification keyboard.
// "close" deletes the notification; every query is answered so the client stops spinning.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "callback")

	query := update.CallbackQuery
	if query == nil {
		log.DebugContext(ctx, "Ignoring update without callback query", "update_id", update.ID)
		return
	}

	if query.Data == notify.CallbackClose {
		if msg := query.Message.Message; msg != nil {
			if _, err := h.deps.Client.DeleteMessage(ctx, &bot.DeleteMessageParams{
				ChatID:    msg.Chat.ID,
				MessageID: msg.ID,
			}); err != nil {
				log.ErrorContext(ctx, "Failed to close notification", "error", err, "chat_id", msg.Chat.ID, "message_id", msg.ID)
			}
		} else {
			log.DebugContext(ctx, "Notification is no longer accessible, nothing to close", "callback_query_id", query.ID)
		}
	}

	if _, err := h.deps.Client.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to answer callback query", "error", err, "callback_query_id", query.ID)
	}
}
