package oauth

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/discord"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/cache"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/env"
)

const (
	Provider     = "discord"
	CallbackPath = "/auth/discord/callback"
)

// Setup registers the Discord provider and the OAuth state store.
// It is safe to call multiple times; providers will just be re-registered.
func Setup(cfg *env.Config) {
	RegisterProvider(cfg)

	// OAuth state via Redis, using same connection as app sessions (separate DB)
	cacheOpts := cache.GetClient().Options()
	host, port := "127.0.0.1", 6379
	if cacheOpts != nil && cacheOpts.Addr != "" {
		if h, p, err := net.SplitHostPort(cacheOpts.Addr); err == nil {
			host = h
			if parsed, e := strconv.Atoi(p); e == nil {
				port = parsed
			}
		} else {
			host = cacheOpts.Addr
		}
	}

	gothfiber.SessionStore = session.New(session.Config{
		Storage: redisstorage.New(redisstorage.Config{
			Host:     host,
			Port:     port,
			Username: cacheOpts.Username,
			Password: cacheOpts.Password,
			Database: 2,
			Reset:    false,
		}),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     10 * time.Minute,
	})
}

// RegisterProvider registers only the Discord provider, asking for the
// identify and guilds scopes.
func RegisterProvider(cfg *env.Config) {
	goth.UseProviders(
		discord.New(
			cfg.DiscordClientID,
			cfg.DiscordClientSecret,
			cfg.BaseURL()+CallbackPath,
			discord.ScopeIdentify, discord.ScopeGuilds,
		),
	)
}
