package repository

import (
	"sync"

	"gorm.io/gorm"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db       *gorm.DB
	defaults gameconfig.GuildDefaults
	repos    *Repositories
	once     sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB, defaults gameconfig.GuildDefaults) *Factory {
	return &Factory{
		db:       db,
		defaults: defaults,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db, f.defaults)
	})
	return f.repos
}

func (f *Factory) GetGuildRepository() GuildRepository {
	return f.GetRepositories().Guild
}

func (f *Factory) GetPlayerRepository() PlayerRepository {
	return f.GetRepositories().Player
}

func (f *Factory) GetUserLoginRepository() UserLoginRepository {
	return f.GetRepositories().UserLogin
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB, defaults gameconfig.GuildDefaults) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db, defaults)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}
