package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/shadowbot/internal/snapshot"
)

// NewEditedMessageHandler returns a handler that reports edits of business
// messages to the owner, quoting the content from before the edit.
func NewEditedMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return editedMessageHandler{deps}.Handle
}

type editedMessageHandler struct {
	deps HandlerDeps
}

func (h editedMessageHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "edited_business_message")

	msg := update.EditedBusinessMessage
	if msg == nil {
		log.DebugContext(ctx, "Ignoring update without edited business message", "update_id", update.ID)
		return
	}
	log = log.With("chat_id", msg.Chat.ID, "message_id", msg.ID)

	cacheCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	original, err := h.deps.Shadow.Fetch(cacheCtx, msg.Chat.ID, msg.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch original message, treating as not cached", "error", err)
		original = nil
	}

	// The edited version replaces the cached one so the next edit is compared against it.
	edited := snapshot.FromMessage(msg)
	if err := h.deps.Shadow.Store(cacheCtx, edited); err != nil {
		log.ErrorContext(ctx, "Failed to cache edited message", "error", err)
	}

	if original == nil {
		log.DebugContext(ctx, "Edited message was never cached, nothing to report")
		return
	}
	if !original.Attributable() {
		log.DebugContext(ctx, "Edited message has no sender, nothing to report")
		return
	}

	if out := h.deps.Dispatcher.NotifyEdited(ctx, original, edited); !out.OK() {
		log.ErrorContext(ctx, "Failed to notify owner about edited message", "error", out.Err)
		return
	}
	log.InfoContext(ctx, "Owner notified about edited message")
}
