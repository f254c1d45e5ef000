package settings

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/repository"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
)

// BotPresence reports whether the bot is a member of a guild.
type BotPresence interface {
	HasGuild(guildID string) bool
}

// Service validates and stores guild settings.
type Service struct {
	validator *Validator
	guilds    repository.GuildRepository
	bot       BotPresence
}

func NewService(v *Validator, guilds repository.GuildRepository, bot BotPresence) *Service {
	return &Service{validator: v, guilds: guilds, bot: bot}
}

// Validator returns the validator the service runs.
func (s *Service) Validator() *Validator {
	return s.validator
}

// Update validates form and writes the accepted settings with one upsert.
// A rejected form causes no write.
func (s *Service) Update(ctx context.Context, guildID string, claim guildaccess.Claim, form map[string]string) (*models.Guild, error) {
	if !claim.CanManage() {
		return nil, permissionDenied()
	}
	if s.bot != nil && !s.bot.HasGuild(guildID) {
		return nil, botNotInGuild()
	}

	patch, err := s.validator.Validate(claim, form)
	if err != nil {
		return nil, err
	}

	g := models.NewGuild(guildID, s.guilds.Defaults())
	if err := patch.Apply(g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	columns, err := patch.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	if err := s.guilds.UpsertSettings(ctx, g, columns); err != nil {
		log.Errorf("[Settings] upsert guild %s: %v", guildID, err)
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	stored, err := s.guilds.GetByGuildID(ctx, guildID)
	if err != nil {
		log.Errorf("[Settings] reload guild %s: %v", guildID, err)
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	log.Infof("[Settings] guild %s updated", guildID)
	return stored, nil
}
