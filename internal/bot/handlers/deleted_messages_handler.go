package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/shadowbot/internal/cache"
	"github.com/edgard/shadowbot/internal/snapshot"
)

// NewDeletedMessagesHandler returns a handler that relays deleted business
// messages to the owner and then drops them from the cache.
func NewDeletedMessagesHandler(deps HandlerDeps) bot.HandlerFunc {
	return deletedMessagesHandler{deps}.Handle
}

type deletedMessagesHandler struct {
	deps HandlerDeps
}

func (h deletedMessagesHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "deleted_business_messages")

	deleted := update.DeletedBusinessMessages
	if deleted == nil || len(deleted.MessageIDs) == 0 {
		log.DebugContext(ctx, "Ignoring update without deleted business messages", "update_id", update.ID)
		return
	}
	chat := snapshot.Chat{ID: deleted.Chat.ID, Title: deleted.Chat.Title}
	log = log.With("chat_id", chat.ID)

	fetchCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	originals, err := h.deps.Shadow.FetchMany(fetchCtx, chat.ID, deleted.MessageIDs)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch deleted messages", "error", err, "message_count", len(deleted.MessageIDs))
		return
	}

	var (
		cleanup  []string
		relayed  int
		failures int
	)
	// Relays run one at a time, spaced by the pacer.
	for i, id := range deleted.MessageIDs {
		original := originals[i]
		if original == nil {
			log.DebugContext(ctx, "Deleted message was never cached, skipping", "message_id", id)
			continue
		}

		if !original.Attributable() {
			log.DebugContext(ctx, "Deleted message has no sender, skipping notification", "message_id", id)
			cleanup = append(cleanup, cache.Key(chat.ID, id))
			continue
		}

		if h.deps.Pacer != nil {
			if err := h.deps.Pacer.Wait(ctx); err != nil {
				log.WarnContext(ctx, "Stopped relaying deleted messages", "error", err, "message_id", id)
				break
			}
		}

		out := h.deps.Dispatcher.NotifyDeleted(ctx, original, chat)
		if out.OK() {
			relayed++
		} else {
			failures++
			log.ErrorContext(ctx, "Failed to notify owner about deleted message",
				"error", out.Err, "message_id", id, "route", out.Route)
		}
		cleanup = append(cleanup, cache.Key(chat.ID, id))
	}

	if len(cleanup) > 0 {
		removeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheOpTimeout)
		defer cancel()
		if err := h.deps.Shadow.Remove(removeCtx, cleanup...); err != nil {
			log.ErrorContext(ctx, "Failed to remove deleted messages from cache", "error", err, "keys", len(cleanup))
		}
	}

	log.InfoContext(ctx, "Processed deleted business messages",
		"message_count", len(deleted.MessageIDs),
		"relayed", relayed,
		"failed", failures,
		"removed", len(cleanup))
}
