package handlers

import (
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/edgard/shadowbot/internal/access"
	"github.com/edgard/shadowbot/internal/cache"
	"github.com/edgard/shadowbot/internal/config"
	"github.com/edgard/shadowbot/internal/notify"
)

// HandlerDeps provides dependencies for Telegram update handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Shadow     *cache.Shadow
	Client     notify.Messenger
	Dispatcher *notify.Dispatcher
	Policy     access.Policy

	// Pacer spaces out consecutive deletion relays to stay under outbound rate limits.
	Pacer *rate.Limiter
}
