package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/controllers"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/middleware"
)

const (
	ServersRateLimit       = 100
	ServersRateLimitWindow = 15 * time.Minute
	rateLimitMessage       = "Too many requests from this IP. Try again later."
)

type HttpRouter struct {
	ctl *controllers.Controllers
}

func NewHttpRouter(ctl *controllers.Controllers) *HttpRouter {
	return &HttpRouter{ctl: ctl}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	app.Use("/servers", serversLimiter())

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

// serversLimiter throttles every /servers request per client IP.
func serversLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        ServersRateLimit,
		Expiration: ServersRateLimitWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).SendString(rateLimitMessage)
		},
	})
}
