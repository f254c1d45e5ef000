package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
)

type guildRepository struct {
	db       *gorm.DB
	defaults gameconfig.GuildDefaults
}

// NewGuildRepository creates a new guild repository instance
func NewGuildRepository(db *gorm.DB, defaults gameconfig.GuildDefaults) GuildRepository {
	return &guildRepository{db: db, defaults: defaults}
}

func (r *guildRepository) Defaults() gameconfig.GuildDefaults {
	return r.defaults
}

func (r *guildRepository) GetByGuildID(ctx context.Context, guildID string) (*models.Guild, error) {
	var g models.Guild
	if err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *guildRepository) GetOrCreate(ctx context.Context, guildID string) (*models.Guild, error) {
	return models.GetOrCreateGuild(r.db.WithContext(ctx), guildID, r.defaults)
}

func (r *guildRepository) UpsertSettings(ctx context.Context, g *models.Guild, columns []string) error {
	updates := append(append([]string{}, columns...), "updated_at")
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(g).Error
}

func (r *guildRepository) PremiumByGuildIDs(ctx context.Context, guildIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(guildIDs))
	if len(guildIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		GuildID   string
		VipServer bool
	}
	err := r.db.WithContext(ctx).Model(&models.Guild{}).
		Select("guild_id", "vip_server").
		Where("guild_id IN ?", guildIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.GuildID] = row.VipServer
	}
	return out, nil
}
