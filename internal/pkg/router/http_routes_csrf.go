package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/controllers"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/env"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/middleware"
)

const (
	CSRFHeader    = "X-CSRF-Token"
	CSRFFormField = "_csrf"
)

var errCSRFTokenMissing = errors.New("missing csrf token")

// csrfToken reads the token from the header used by fetch calls or the form
// field used by plain forms.
func csrfToken(c *fiber.Ctx) (string, error) {
	if t := c.Get(CSRFHeader); t != "" {
		return t, nil
	}
	if t := c.FormValue(CSRFFormField); t != "" {
		return t, nil
	}
	return "", errCSRFTokenMissing
}

func csrfConfig() csrf.Config {
	return csrf.Config{
		Extractor:      csrfToken,
		ContextKey:     controllers.CSRFContextKey,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/webhook"
		},
	}
}

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	group := app.Group("", csrf.New(csrfConfig()))
	group.Get("/", h.ctl.Main.HandleHome)
	group.Get("/dashboard", middleware.RequireAuth, h.ctl.Dashboard.HandleDashboard)

	// Settings pages
	group.Get("/servers/:id/settings", middleware.RequireAuth, h.ctl.Settings.HandleSettings)
	group.Post("/servers/:id/settings", middleware.RequireAPISessionAuth, h.ctl.Settings.HandleSettingsPost)

	// Premium checkout
	group.Get("/servers/:id/buy-premium", middleware.RequireAuth, h.ctl.Billing.HandleBuyPremium)
	group.Get("/servers/:id/premium-success", middleware.RequireAuth, h.ctl.Billing.HandlePremiumSuccess)

	h.registerAPIRoutes(group)
}
