package router

import (
	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Payment provider webhook (no CSRF, signature-verified in controller)
	app.Post("/webhook", h.ctl.Billing.HandleStripeWebhook)

	// Auth; the fixed paths must precede /auth/:provider
	app.Get("/auth/login", h.ctl.Auth.HandleLogin)
	app.Get("/auth/logout", h.ctl.Auth.HandleLogout)
	app.Post("/auth/logout", h.ctl.Auth.HandleLogout)
	app.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	app.Get("/auth/:provider/callback", h.ctl.Auth.HandleOAuthCallback)

	// Static pages
	app.Get("/terms", h.ctl.Main.HandleTerms)
	app.Get("/privacy", h.ctl.Main.HandlePrivacy)
}
