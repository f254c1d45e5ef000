package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/repository"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/discordapi"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/security"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/session"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/usercontext"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/viewmodel"
)

// BotDirectory answers what the bot can see of a guild.
type BotDirectory interface {
	HasGuild(guildID string) bool
	TextChannels(ctx context.Context, guildID string) ([]discordapi.Channel, error)
}

// DashboardController renders the guild overview.
type DashboardController struct {
	guilds   repository.GuildRepository
	bot      BotDirectory
	fetcher  GuildFetcher
	box      *security.TokenBox
	clientID string
}

func NewDashboardController(guilds repository.GuildRepository, bot BotDirectory, fetcher GuildFetcher, box *security.TokenBox, clientID string) *DashboardController {
	return &DashboardController{guilds: guilds, bot: bot, fetcher: fetcher, box: box, clientID: clientID}
}

// HandleDashboard renders the managed guilds captured at login.
func (dc *DashboardController) HandleDashboard(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	cards, err := dc.cards(ctx, session.Guilds(c))
	if err != nil {
		log.Errorf("[Dashboard] loading servers for %s: %v", usercontext.GetDiscordID(c), err)
		cards = []viewmodel.ServerCard{}
	}

	return c.Render("dashboard", fiber.Map{
		"Layout":  layoutFor(c, "dashboard", dc.clientID),
		"Servers": cards,
	}, "layouts/main")
}

// HandleServers refreshes the guild list from Discord and returns it as JSON.
func (dc *DashboardController) HandleServers(c *fiber.Ctx) error {
	sealed := session.SealedAccessToken(c)
	if sealed == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"servers": []viewmodel.ServerCard{}})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, err := dc.box.Open(sealed)
	if err != nil {
		log.Warnf("[Dashboard] unreadable access token for %s: %v", usercontext.GetDiscordID(c), err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"servers": []viewmodel.ServerCard{}})
	}

	all, err := dc.fetcher.UserGuilds(ctx, token)
	if err != nil {
		log.Errorf("[Dashboard] fetching guilds: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"servers": []viewmodel.ServerCard{}})
	}
	managed := guildaccess.Managed(all)
	if err := session.SetGuilds(c, managed); err != nil {
		log.Warnf("[Dashboard] storing guilds in session: %v", err)
	}

	cards, err := dc.cards(ctx, managed)
	if err != nil {
		log.Errorf("[Dashboard] loading premium flags: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"servers": []viewmodel.ServerCard{}})
	}
	return c.JSON(fiber.Map{"servers": cards, "clientId": dc.clientID})
}

func (dc *DashboardController) cards(ctx context.Context, managed []guildaccess.Guild) ([]viewmodel.ServerCard, error) {
	ids := make([]string, 0, len(managed))
	for _, g := range managed {
		ids = append(ids, g.ID)
	}
	premium, err := dc.guilds.PremiumByGuildIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	cards := make([]viewmodel.ServerCard, 0, len(managed))
	for _, g := range managed {
		cards = append(cards, viewmodel.ServerCard{
			ID:            g.ID,
			Name:          g.Name,
			Icon:          g.Icon,
			IconURL:       g.IconURL(),
			Owner:         g.Owner,
			IsBotInServer: dc.bot.HasGuild(g.ID),
			Premium:       premium[g.ID],
		})
	}
	return cards, nil
}
