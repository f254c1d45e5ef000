package usercontext

import "github.com/gofiber/fiber/v2"

const defaultAvatarURL = "https://cdn.discordapp.com/embed/avatars/0.png"

// UserContext represents the complete user context for a request
type UserContext struct {
	DiscordID  string `json:"discord_id"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// AvatarURL is the CDN URL of the user's avatar or Discord's default one.
func (u UserContext) AvatarURL() string {
	if u.Avatar == "" {
		return defaultAvatarURL
	}
	return "https://cdn.discordapp.com/avatars/" + u.DiscordID + "/" + u.Avatar + ".png"
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return ctx
	}
	return UserContext{}
}

// Set stores the user context for the rest of the request.
func Set(c *fiber.Ctx, u UserContext) {
	c.Locals(KeyUserContext, u)
	c.Locals(KeyFromProtected, u.IsLoggedIn)
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetDiscordID returns the current user's Discord ID, or "" if not logged in
func GetDiscordID(c *fiber.Ctx) string {
	return GetUserContext(c).DiscordID
}
