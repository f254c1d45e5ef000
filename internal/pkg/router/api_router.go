package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/middleware"
)

// registerAPIRoutes adds the JSON endpoints used by the dashboard scripts.
// They answer 401 JSON instead of redirecting to the login.
func (h HttpRouter) registerAPIRoutes(group fiber.Router) {
	group.Get("/servers", middleware.RequireAPISessionAuth, h.ctl.Dashboard.HandleServers)
	group.Get("/servers/:id/players", middleware.RequireAPISessionAuth, h.ctl.Players.HandlePlayers)
	group.Patch("/servers/:id/players/:userId", middleware.RequireAPISessionAuth, h.ctl.Players.HandlePlayerUpdate)
}
