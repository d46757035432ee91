package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/shadowbot/internal/snapshot"
)

const cacheOpTimeout = 5 * time.Second

// NewBusinessMessageHandler returns a handler that silently shadows every new business message.
func NewBusinessMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return businessMessageHandler{deps}.Handle
}

type businessMessageHandler struct {
	deps HandlerDeps
}

func (h businessMessageHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "business_message")

	msg := update.BusinessMessage
	if msg == nil {
		log.DebugContext(ctx, "Ignoring update without business message", "update_id", update.ID)
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	if err := h.deps.Shadow.Store(cacheCtx, snapshot.FromMessage(msg)); err != nil {
		log.ErrorContext(ctx, "Failed to cache business message", "error", err, "chat_id", msg.Chat.ID, "message_id", msg.ID)
		return
	}
	log.DebugContext(ctx, "Cached business message", "chat_id", msg.Chat.ID, "message_id", msg.ID)
}
