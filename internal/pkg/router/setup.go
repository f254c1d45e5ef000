package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/controllers"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter registers all dashboard routes. The session store and OAuth
// providers must be set up before.
func InstallRouter(app *fiber.App, ctl *controllers.Controllers) {
	setup(app, NewHttpRouter(ctl))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
