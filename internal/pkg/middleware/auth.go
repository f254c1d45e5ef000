package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/usercontext"
)

const LoginPath = "/auth/login"

// RequireAuth ensures a logged-in web session; redirects to the login if missing.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Redirect(LoginPath, fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPISessionAuth ensures a logged-in session for JSON routes and returns 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Not authenticated",
		})
	}
	return c.Next()
}
