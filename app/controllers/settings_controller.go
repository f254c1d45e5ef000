package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/repository"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/discordapi"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/settings"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/viewmodel"
)

// SettingsController shows and saves the casino settings of a guild.
type SettingsController struct {
	service  *settings.Service
	guilds   repository.GuildRepository
	bot      BotDirectory
	game     *gameconfig.Config
	clientID string
}

func NewSettingsController(service *settings.Service, guilds repository.GuildRepository, bot BotDirectory, game *gameconfig.Config, clientID string) *SettingsController {
	return &SettingsController{service: service, guilds: guilds, bot: bot, game: game, clientID: clientID}
}

// HandleSettings renders the settings form. The guild record is created with
// defaults on first view.
func (sc *SettingsController) HandleSettings(c *fiber.Ctx) error {
	guildID := c.Params("id")
	claim, userGuild, ok := claimFor(c, guildID)
	if !ok || !claim.CanManage() {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	if !sc.bot.HasGuild(guildID) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	channels, err := sc.bot.TextChannels(ctx, guildID)
	if err != nil {
		log.Warnf("[Settings] channels of %s: %v", guildID, err)
		channels = []discordapi.Channel{}
	}

	guild, err := sc.guilds.GetOrCreate(ctx, guildID)
	if err != nil {
		log.Errorf("[Settings] loading guild %s: %v", guildID, err)
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	levels := make([]viewmodel.BetLevelRow, 0, len(sc.game.BetLevels))
	for _, bl := range sc.game.BetLevels {
		v, err := guild.MaxBetLevel(bl.Level)
		if err != nil {
			continue
		}
		levels = append(levels, viewmodel.BetLevelRow{Level: bl.Level, Field: bl.Field, Value: v})
	}

	return c.Render("server_settings", fiber.Map{
		"Layout": layoutFor(c, "settings", sc.clientID),
		"Guild":  guild,
		"Page": viewmodel.SettingsPage{
			ServerName: userGuild.Name,
			Channels:   channels,
			Languages:  sc.game.Languages,
			BetLevels:  levels,
		},
	}, "layouts/main")
}

// HandleSettingsPost validates and saves the form. Outcomes are reported in
// the body, never through the status code.
func (sc *SettingsController) HandleSettingsPost(c *fiber.Ctx) error {
	guildID := c.Params("id")
	claim, _, _ := claimFor(c, guildID)

	form, err := formValues(c)
	if err != nil {
		return c.JSON(fiber.Map{"success": false, "message": settings.MessageUnexpected})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	guild, err := sc.service.Update(ctx, guildID, claim, form)
	if err != nil {
		if ve, ok := settings.AsValidation(err); ok {
			return c.JSON(fiber.Map{"success": false, "message": ve.Message})
		}
		log.Errorf("[Settings] saving %s: %v", guildID, err)
		return c.JSON(fiber.Map{"success": false, "message": settings.MessageUnexpected})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": settings.MessageSaved,
		"guild":   guild,
	})
}
