package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/statistics"
)

// StatisticsProvider returns the bot-wide numbers for the home page.
type StatisticsProvider interface {
	GetStatisticsData(ctx context.Context) statistics.StatisticsData
}

type MainController struct {
	stats    StatisticsProvider
	clientID string
}

func NewMainController(stats StatisticsProvider, clientID string) *MainController {
	return &MainController{stats: stats, clientID: clientID}
}

func (mc *MainController) HandleHome(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	return c.Render("index", fiber.Map{
		"Layout": layoutFor(c, "home", mc.clientID),
		"Stats":  mc.stats.GetStatisticsData(ctx),
	}, "layouts/main")
}

func (mc *MainController) HandleTerms(c *fiber.Ctx) error {
	return c.Render("terms", fiber.Map{"Layout": layoutFor(c, "terms", mc.clientID)}, "layouts/main")
}

func (mc *MainController) HandlePrivacy(c *fiber.Ctx) error {
	return c.Render("privacy", fiber.Map{"Layout": layoutFor(c, "privacy", mc.clientID)}, "layouts/main")
}
