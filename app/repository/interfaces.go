package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
)

// GuildRepository defines the interface for guild settings persistence
type GuildRepository interface {
	GetByGuildID(ctx context.Context, guildID string) (*models.Guild, error)
	GetOrCreate(ctx context.Context, guildID string) (*models.Guild, error)
	// UpsertSettings inserts g or, when the guild exists, overwrites only columns.
	UpsertSettings(ctx context.Context, g *models.Guild, columns []string) error
	PremiumByGuildIDs(ctx context.Context, guildIDs []string) (map[string]bool, error)
	Defaults() gameconfig.GuildDefaults
}

// PlayerRepository defines the interface for per-guild player records
type PlayerRepository interface {
	Get(ctx context.Context, guildID, userID string) (*models.Player, error)
	GetOrCreate(ctx context.Context, guild *models.Guild, userID string) (*models.Player, error)
	CountByGuild(ctx context.Context, guildID string) (int64, error)
	ListByGuild(ctx context.Context, guildID string, offset, limit int) ([]models.Player, error)
	UpdateFields(ctx context.Context, guildID, userID string, fields map[string]interface{}) error
}

// UserLoginRepository defines the interface for dashboard accounts
type UserLoginRepository interface {
	Upsert(ctx context.Context, u *models.UserLogin) error
	GetByDiscordID(ctx context.Context, discordID string) (*models.UserLogin, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Guild     GuildRepository
	Player    PlayerRepository
	UserLogin UserLoginRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB, defaults gameconfig.GuildDefaults) *Repositories {
	return &Repositories{
		Guild:     NewGuildRepository(db, defaults),
		Player:    NewPlayerRepository(db),
		UserLogin: NewUserLoginRepository(db),
	}
}
