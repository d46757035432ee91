package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/shadowbot/internal/notify"
)

// RegisteredHandler represents an update handler with its matching rule and middleware.
// When MatchFunc is set it takes precedence over HandlerType/Pattern/MatchType.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	MatchType   tgbot.MatchType
	MatchFunc   tgbot.MatchFunc
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
}

// RegisterAllHandlers initializes and returns every handler keyed by a descriptive name.
func RegisterAllHandlers(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Handler:     NewStartHandler(deps),
		Middleware:  []tgbot.Middleware{AllowListOnly(deps)},
	}

	handlers["business_message"] = RegisteredHandler{
		MatchFunc: func(update *models.Update) bool { return update.BusinessMessage != nil },
		Handler:   NewBusinessMessageHandler(deps),
	}
	handlers["edited_business_message"] = RegisteredHandler{
		MatchFunc: func(update *models.Update) bool { return update.EditedBusinessMessage != nil },
		Handler:   NewEditedMessageHandler(deps),
	}
	handlers["deleted_business_messages"] = RegisteredHandler{
		MatchFunc: func(update *models.Update) bool { return update.DeletedBusinessMessages != nil },
		Handler:   NewDeletedMessagesHandler(deps),
	}

	for _, data := range []string{notify.CallbackClose, notify.CallbackEmpty} {
		handlers["callback:"+data] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeCallbackQueryData,
			Pattern:     data,
			MatchType:   tgbot.MatchTypeExact,
			Handler:     NewCallbackHandler(deps),
		}
	}

	return handlers
}
