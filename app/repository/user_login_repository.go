package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
)

type userLoginRepository struct {
	db *gorm.DB
}

// NewUserLoginRepository creates a new user login repository instance
func NewUserLoginRepository(db *gorm.DB) UserLoginRepository {
	return &userLoginRepository{db: db}
}

// Upsert creates the account or refreshes profile and tokens on re-login.
func (r *userLoginRepository) Upsert(ctx context.Context, u *models.UserLogin) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "discord_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username",
			"avatar",
			"access_token_enc",
			"refresh_token_enc",
			"token_expires_at",
			"last_login_at",
			"updated_at",
		}),
	}).Create(u).Error; err != nil {
		return err
	}
	return db.Where("discord_id = ?", u.DiscordID).First(u).Error
}

func (r *userLoginRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.UserLogin, error) {
	var u models.UserLogin
	if err := r.db.WithContext(ctx).Where("discord_id = ?", discordID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
