package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
)

type playerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a new player repository instance
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Get(ctx context.Context, guildID, userID string) (*models.Player, error) {
	var p models.Player
	err := r.db.WithContext(ctx).Where("guild_id = ? AND user_id = ?", guildID, userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) GetOrCreate(ctx context.Context, guild *models.Guild, userID string) (*models.Player, error) {
	p, err := r.Get(ctx, guild.GuildID, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := models.NewPlayer(guild, userID)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(created).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, guild.GuildID, userID)
}

func (r *playerRepository) CountByGuild(ctx context.Context, guildID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Player{}).Where("guild_id = ?", guildID).Count(&count).Error
	return count, err
}

func (r *playerRepository) ListByGuild(ctx context.Context, guildID string, offset, limit int) ([]models.Player, error) {
	var players []models.Player
	err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&players).Error
	return players, err
}

func (r *playerRepository) UpdateFields(ctx context.Context, guildID, userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Player{}).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Updates(fields).Error
}
