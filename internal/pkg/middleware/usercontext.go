package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/session"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the user context for every request
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth keeps its own session store on the OAuth routes.
	if strings.HasPrefix(c.Path(), "/auth/discord") || c.Path() == "/webhook" {
		usercontext.Set(c, usercontext.UserContext{})
		return c.Next()
	}

	u, ok := session.CurrentUser(c)
	if !ok {
		usercontext.Set(c, usercontext.UserContext{})
		return c.Next()
	}

	usercontext.Set(c, usercontext.UserContext{
		DiscordID:  u.DiscordID,
		Username:   u.Username,
		Avatar:     u.Avatar,
		IsLoggedIn: true,
	})
	return c.Next()
}
