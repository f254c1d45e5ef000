package models

import (
	"time"
)

// Swag is the per-player inventory.
type Swag struct {
	Balloon int64 `gorm:"not null" json:"balloon"`
	Mobile  int64 `gorm:"not null" json:"mobile"`
	Bike    int64 `gorm:"not null" json:"bike"`
	Car     int64 `gorm:"not null" json:"car"`
	Castle  int64 `gorm:"not null" json:"castle"`
}

type BattlePass struct {
	Active         bool    `gorm:"not null" json:"active"`
	Level          int64   `gorm:"not null" json:"level"`
	RewardsClaimed []int64 `gorm:"serializer:json;type:text" json:"rewardsClaimed"`
	Experience     int64   `gorm:"not null" json:"experience"`
}

// Player is the economy state of one user inside one guild. Cooldown markers
// are epoch milliseconds, 0 meaning never.
type Player struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	GuildID    string     `gorm:"type:varchar(32);not null;uniqueIndex:ux_players_guild_user,priority:1" json:"guildId"`
	UserID     string     `gorm:"type:varchar(32);not null;uniqueIndex:ux_players_guild_user,priority:2" json:"userId"`
	Balance    int64      `gorm:"not null" json:"balance"`
	Level      int64      `gorm:"not null" json:"level"`
	Experience int64      `gorm:"not null" json:"experience"`
	MaxBet     int64      `gorm:"not null" json:"maxBet"`
	Swag       Swag       `gorm:"embedded;embeddedPrefix:swag_" json:"swag"`
	Multiplier float64    `gorm:"type:decimal(10,2);not null" json:"multiplier"`
	BattlePass BattlePass `gorm:"embedded;embeddedPrefix:battle_pass_" json:"battlePass"`

	LastWork            int64 `gorm:"not null" json:"lastWork"`
	LastDaily           int64 `gorm:"not null" json:"lastDaily"`
	LastWeekly          int64 `gorm:"not null" json:"lastWeekly"`
	LastBlackJack       int64 `gorm:"not null" json:"lastBlackJack"`
	LastCoinFlip        int64 `gorm:"not null" json:"lastCoinFlip"`
	LastCrash           int64 `gorm:"not null" json:"lastCrash"`
	LastMinesweeper     int64 `gorm:"not null" json:"lastMinesweeper"`
	LastRace            int64 `gorm:"not null" json:"lastRace"`
	LastRoulette        int64 `gorm:"not null" json:"lastRoulette"`
	LastRps             int64 `gorm:"not null" json:"lastRps"`
	LastRussianRoulette int64 `gorm:"not null" json:"lastRussianRoulette"`
	LastSlot            int64 `gorm:"not null" json:"lastSlot"`
	LastVote            int64 `gorm:"not null" json:"lastVote"`
	LastCrime           int64 `gorm:"not null" json:"lastCrime"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// NewPlayer builds a default-populated player from the guild's starting values.
func NewPlayer(g *Guild, userID string) *Player {
	return &Player{
		GuildID:    g.GuildID,
		UserID:     userID,
		Balance:    g.InitBalance,
		Level:      g.InitLevel,
		MaxBet:     g.MaxBet,
		Multiplier: g.InitMultiplier,
		Swag: Swag{
			Balloon: g.InitBalloon,
			Mobile:  g.InitMobile,
			Bike:    g.InitBike,
			Car:     g.InitCar,
			Castle:  g.InitCastle,
		},
		BattlePass: BattlePass{Level: 1, RewardsClaimed: []int64{}},
	}
}
